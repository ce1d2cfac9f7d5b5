package llm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propono/docbudget/internal/common"
)

type fakeProvider struct {
	name       string
	budget     BudgetResponse
	err        error
	lastPrompt string
	lastText   string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) GenerateBudget(_ context.Context, prompt, documentText string) (BudgetResponse, error) {
	f.lastPrompt = prompt
	f.lastText = documentText
	return f.budget, f.err
}

func (f *fakeProvider) GenerateResponse(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return "ok", f.err
}

func sampleBudget() BudgetResponse {
	return BudgetResponse{
		Title:         "Reforma",
		Description:   "desc",
		Items:         []BudgetItem{{Description: "item", Quantity: 1, UnitPrice: 100, TotalPrice: 100}},
		TotalValue:    100,
		EstimatedTime: "1 semana",
		Confidence:    90,
	}
}

func TestGeneratorRejectsUnknownProvider(t *testing.T) {
	g := NewGenerator(nil)
	err := g.Register(&fakeProvider{name: "mistral"})
	assert.Error(t, err)
}

func TestGeneratorUnconfiguredProvider(t *testing.T) {
	g := NewGenerator(nil)
	_, err := g.GenerateBudget(context.Background(), "texto", GenerationOptions{Provider: ProviderOpenAI})
	assert.ErrorIs(t, err, common.ErrProviderNotConfigured)
}

func TestGeneratorDispatchesToSelectedProvider(t *testing.T) {
	g := NewGenerator(nil)
	fake := &fakeProvider{name: ProviderGemini, budget: sampleBudget()}
	require.NoError(t, g.Register(fake))

	budget, err := g.GenerateBudget(context.Background(), "texto do documento", GenerationOptions{
		Provider: ProviderGemini,
		Currency: "BRL",
	})
	require.NoError(t, err)
	assert.Equal(t, "Reforma", budget.Title)
	assert.Equal(t, "texto do documento", fake.lastText)
	assert.Contains(t, fake.lastPrompt, "Usar moeda: BRL")
}

func TestGeneratorWrapsProviderFailure(t *testing.T) {
	g := NewGenerator(nil)
	fake := &fakeProvider{name: ProviderOpenAI, err: fmt.Errorf("boom")}
	require.NoError(t, g.Register(fake))

	_, err := g.GenerateBudget(context.Background(), "texto", GenerationOptions{Provider: ProviderOpenAI})
	assert.ErrorIs(t, err, common.ErrBudgetGenerationFailed)
}

func TestGeneratorAvailableProviders(t *testing.T) {
	g := NewGenerator(nil)
	require.NoError(t, g.Register(&fakeProvider{name: ProviderOpenAI}))
	require.NoError(t, g.Register(&fakeProvider{name: ProviderAgno}))

	assert.Equal(t, []string{ProviderAgno, ProviderOpenAI}, g.AvailableProviders())
	assert.True(t, g.IsProviderConfigured(ProviderOpenAI))
	assert.False(t, g.IsProviderConfigured(ProviderGemini))
}

func TestGenerateResponse(t *testing.T) {
	g := NewGenerator(nil)
	fake := &fakeProvider{name: ProviderAgno}
	require.NoError(t, g.Register(fake))

	out, err := g.GenerateResponse(context.Background(), ProviderAgno, "oi")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	_, err = g.GenerateResponse(context.Background(), ProviderGemini, "oi")
	assert.ErrorIs(t, err, common.ErrProviderNotConfigured)
}

func TestBuildPromptComposition(t *testing.T) {
	prompt := BuildPrompt(GenerationOptions{
		Template:       "modelo X",
		IncludeDetails: true,
		Currency:       "BRL",
	})
	assert.Contains(t, prompt, "Gere um orçamento detalhado")
	assert.Contains(t, prompt, "modelo X")
	assert.Contains(t, prompt, "detalhes técnicos")
	assert.Contains(t, prompt, "Usar moeda: BRL")
	assert.Contains(t, prompt, "mercado brasileiro")
}

func TestSystemPromptEmbedsSchema(t *testing.T) {
	sys := SystemPrompt()
	assert.Contains(t, sys, "JSON Schema:")
	assert.Contains(t, sys, `"totalValue"`)
	assert.Contains(t, sys, `"estimatedTime"`)
}
