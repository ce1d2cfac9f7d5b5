package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/propono/docbudget/internal/common"
)

// The provider set is closed: budgets are only ever generated through one of
// these three backends.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderAgno   = "agno"
)

var knownProviders = map[string]struct{}{
	ProviderOpenAI: {},
	ProviderGemini: {},
	ProviderAgno:   {},
}

// Generator dispatches budget generation to whichever providers have been
// registered. It is safe for concurrent use after registration.
type Generator struct {
	providers map[string]Provider
	log       *slog.Logger
}

func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{providers: make(map[string]Provider), log: logger}
}

// Register adds a provider under its own name. Names outside the closed set
// are rejected.
func (g *Generator) Register(p Provider) error {
	name := p.Name()
	if _, ok := knownProviders[name]; !ok {
		return fmt.Errorf("unknown provider %q", name)
	}
	g.providers[name] = p
	return nil
}

// AvailableProviders lists the registered provider names, sorted.
func (g *Generator) AvailableProviders() []string {
	names := make([]string, 0, len(g.providers))
	for name := range g.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsProviderConfigured reports whether a provider has been registered.
func (g *Generator) IsProviderConfigured(name string) bool {
	_, ok := g.providers[name]
	return ok
}

// GenerateBudget builds the instruction prompt from the options and runs it
// with the selected provider. The returned budget has already passed schema
// and arithmetic validation.
func (g *Generator) GenerateBudget(ctx context.Context, documentText string, opts GenerationOptions) (BudgetResponse, error) {
	rid := uuid.New().String()
	start := time.Now()

	provider, ok := g.providers[opts.Provider]
	if !ok {
		g.log.Error("llm.budget.provider_missing", "req_id", rid, "provider", opts.Provider)
		return BudgetResponse{}, common.NewAppError("LLM_PROVIDER", fmt.Sprintf("provider %q", opts.Provider), common.ErrProviderNotConfigured)
	}

	g.log.Info("llm.budget.start",
		"req_id", rid,
		"provider", opts.Provider,
		"text_len", len(documentText),
		"has_template", opts.Template != "",
		"include_details", opts.IncludeDetails,
		"currency", opts.Currency,
	)

	prompt := BuildPrompt(opts)
	budget, err := provider.GenerateBudget(ctx, prompt, documentText)
	if err != nil {
		g.log.Error("llm.budget.failed",
			"req_id", rid,
			"provider", opts.Provider,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return BudgetResponse{}, common.NewAppError("LLM_BUDGET", fmt.Sprintf("provider %s: %v", opts.Provider, err), common.ErrBudgetGenerationFailed)
	}

	g.log.Info("llm.budget.ok",
		"req_id", rid,
		"provider", opts.Provider,
		"title", budget.Title,
		"items", len(budget.Items),
		"total", budget.TotalValue,
		"confidence", budget.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return budget, nil
}

// GenerateResponse runs a free-form prompt with the selected provider.
func (g *Generator) GenerateResponse(ctx context.Context, providerName, prompt string) (string, error) {
	provider, ok := g.providers[providerName]
	if !ok {
		return "", common.NewAppError("LLM_PROVIDER", fmt.Sprintf("provider %q", providerName), common.ErrProviderNotConfigured)
	}
	return provider.GenerateResponse(ctx, prompt)
}
