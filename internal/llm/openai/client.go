// Package openai implements llm.Provider on top of the OpenAI chat API.
package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/propono/docbudget/internal/llm"
)

const defaultModel = "gpt-4"

type Client struct {
	model llms.Model
	cfg   llm.Config
	log   *slog.Logger
}

func New(cfg llm.Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api key required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	model, err := lcopenai.New(
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("openai: init client: %w", err)
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

func (c *Client) Name() string { return llm.ProviderOpenAI }

func (c *Client) GenerateBudget(ctx context.Context, prompt, documentText string) (llm.BudgetResponse, error) {
	user := prompt + "\n\nTexto do documento:\n" + documentText
	content, err := llm.CompleteChat(ctx, c.model, c.cfg, llm.SystemPrompt(), user)
	if err != nil {
		c.log.Error("openai.budget.call_failed", "model", c.cfg.Model, "error", err)
		return llm.BudgetResponse{}, err
	}
	budget, err := llm.DecodeBudget(content)
	if err != nil {
		c.log.Error("openai.budget.decode_failed", "model", c.cfg.Model, "error", err)
		return llm.BudgetResponse{}, err
	}
	return budget, nil
}

func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	return llm.CompletePrompt(ctx, c.model, c.cfg, prompt)
}
