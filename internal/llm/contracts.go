// Package llm turns extracted document text into structured, validated
// budget proposals through a closed set of chat-model providers.
package llm

import "context"

// BudgetItem is one priced line of a generated budget.
type BudgetItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
	Category    string  `json:"category,omitempty"`
}

// BudgetResponse is the normalized shape we want from the LLM.
type BudgetResponse struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Items         []BudgetItem `json:"items"`
	TotalValue    float64      `json:"totalValue"`
	EstimatedTime string       `json:"estimatedTime"` // e.g. "6 semanas"
	Confidence    float64      `json:"confidence"`    // 0..100
}

// Config carries per-provider credentials and sampling knobs. The API key is
// opaque; it must never appear in logs or errors.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string // OpenAI-compatible endpoints only
	Temperature float64
	MaxTokens   int
}

// GenerationOptions selects the provider and shapes the instruction prompt.
type GenerationOptions struct {
	Provider       string // "openai", "gemini" or "agno"
	Template       string // optional budget template to follow
	IncludeDetails bool   // ask for per-item technical justification
	Currency       string // e.g. "BRL"
}

// Provider is the interface the generator dispatches to.
type Provider interface {
	Name() string
	GenerateBudget(ctx context.Context, prompt, documentText string) (BudgetResponse, error)
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}
