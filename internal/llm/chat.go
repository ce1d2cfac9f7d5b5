package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// CompleteChat runs a system+user exchange against a chat model and returns
// the first choice's text. Provider clients share it so the message shape
// and sampling options stay uniform.
func CompleteChat(ctx context.Context, model llms.Model, cfg Config, system, user string) (string, error) {
	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	opts := []llms.CallOption{}
	if cfg.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, msgs, opts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty model response")
	}
	return resp.Choices[0].Content, nil
}

// CompletePrompt runs a single-turn prompt without a system message.
func CompletePrompt(ctx context.Context, model llms.Model, cfg Config, prompt string) (string, error) {
	opts := []llms.CallOption{}
	if cfg.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.MaxTokens))
	}
	return llms.GenerateFromSinglePrompt(ctx, model, prompt, opts...)
}
