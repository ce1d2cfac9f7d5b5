// Package agno implements llm.Provider against the Agno platform, which
// exposes an OpenAI-compatible chat completions endpoint.
package agno

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/propono/docbudget/internal/llm"
)

const (
	defaultModel   = "agno-1"
	defaultBaseURL = "https://api.agno.ai/v1"
)

type Client struct {
	model llms.Model
	cfg   llm.Config
	log   *slog.Logger
}

func New(cfg llm.Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("agno: api key required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	model, err := lcopenai.New(
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithModel(cfg.Model),
		lcopenai.WithBaseURL(cfg.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("agno: init client: %w", err)
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

func (c *Client) Name() string { return llm.ProviderAgno }

func (c *Client) GenerateBudget(ctx context.Context, prompt, documentText string) (llm.BudgetResponse, error) {
	user := prompt + "\n\nTexto do documento:\n" + documentText
	content, err := llm.CompleteChat(ctx, c.model, c.cfg, llm.SystemPrompt(), user)
	if err != nil {
		c.log.Error("agno.budget.call_failed", "model", c.cfg.Model, "error", err)
		return llm.BudgetResponse{}, err
	}
	budget, err := llm.DecodeBudget(content)
	if err != nil {
		c.log.Error("agno.budget.decode_failed", "model", c.cfg.Model, "error", err)
		return llm.BudgetResponse{}, err
	}
	return budget, nil
}

func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	return llm.CompletePrompt(ctx, c.model, c.cfg, prompt)
}
