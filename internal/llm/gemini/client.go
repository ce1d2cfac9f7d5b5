// Package gemini implements llm.Provider on top of the Google Generative AI
// API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/propono/docbudget/internal/llm"
)

const defaultModel = "gemini-pro"

type Client struct {
	model llms.Model
	cfg   llm.Config
	log   *slog.Logger
}

func New(ctx context.Context, cfg llm.Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: init client: %w", err)
	}
	return NewWithModel(model, cfg, logger), nil
}

// NewWithModel injects the chat model, for tests.
func NewWithModel(model llms.Model, cfg llm.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{model: model, cfg: cfg, log: logger}
}

func (c *Client) Name() string { return llm.ProviderGemini }

func (c *Client) GenerateBudget(ctx context.Context, prompt, documentText string) (llm.BudgetResponse, error) {
	user := prompt + "\n\nTexto do documento:\n" + documentText
	content, err := llm.CompleteChat(ctx, c.model, c.cfg, llm.SystemPrompt(), user)
	if err != nil {
		c.log.Error("gemini.budget.call_failed", "model", c.cfg.Model, "error", err)
		return llm.BudgetResponse{}, err
	}
	// Gemini likes to wrap JSON in markdown fences; DecodeBudget strips them.
	budget, err := llm.DecodeBudget(content)
	if err != nil {
		c.log.Error("gemini.budget.decode_failed", "model", c.cfg.Model, "error", err)
		return llm.BudgetResponse{}, err
	}
	return budget, nil
}

func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	return llm.CompletePrompt(ctx, c.model, c.cfg, prompt)
}
