package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBudgetJSON = `{
	"title": "Reforma da cozinha",
	"description": "Reforma completa com troca de bancada e pintura",
	"items": [
		{"description": "Bancada de granito", "quantity": 1, "unitPrice": 2500, "totalPrice": 2500, "category": "Materiais"},
		{"description": "Pintura", "quantity": 40, "unitPrice": 25, "totalPrice": 1000, "category": "Mão de obra"}
	],
	"totalValue": 3500,
	"estimatedTime": "3 semanas",
	"confidence": 85
}`

func TestStripCodeFences(t *testing.T) {
	inputs := []string{
		"{\"a\":1}",
		"```json\n{\"a\":1}\n```",
		"```\n{\"a\":1}\n```",
		"  ```json\n{\"a\":1}\n```  ",
		"```JSON\n{\"a\":1}\n```",
	}
	for _, in := range inputs {
		assert.Equal(t, `{"a":1}`, StripCodeFences(in), in)
	}
}

func TestDecodeBudgetValid(t *testing.T) {
	budget, err := DecodeBudget(validBudgetJSON)
	require.NoError(t, err)
	assert.Equal(t, "Reforma da cozinha", budget.Title)
	assert.Len(t, budget.Items, 2)
	assert.Equal(t, 3500.0, budget.TotalValue)
	assert.Equal(t, "3 semanas", budget.EstimatedTime)
}

func TestDecodeBudgetFencedJSON(t *testing.T) {
	budget, err := DecodeBudget("```json\n" + validBudgetJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Reforma da cozinha", budget.Title)
}

func TestDecodeBudgetRejectsMissingFields(t *testing.T) {
	_, err := DecodeBudget(`{"title": "sem itens"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestDecodeBudgetRejectsEmptyItems(t *testing.T) {
	_, err := DecodeBudget(`{
		"title": "t", "description": "d", "items": [],
		"totalValue": 0, "estimatedTime": "1 dia", "confidence": 50
	}`)
	require.Error(t, err)
}

func TestDecodeBudgetRejectsNonJSON(t *testing.T) {
	_, err := DecodeBudget("Claro! Aqui está o orçamento solicitado.")
	require.Error(t, err)
}

func TestDecodeBudgetRejectsBadItemArithmetic(t *testing.T) {
	_, err := DecodeBudget(`{
		"title": "t", "description": "d",
		"items": [{"description": "x", "quantity": 2, "unitPrice": 100, "totalPrice": 150}],
		"totalValue": 150, "estimatedTime": "1 dia", "confidence": 50
	}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent totals")
}

func TestDecodeBudgetRejectsBadGrandTotal(t *testing.T) {
	_, err := DecodeBudget(`{
		"title": "t", "description": "d",
		"items": [{"description": "x", "quantity": 2, "unitPrice": 100, "totalPrice": 200}],
		"totalValue": 999, "estimatedTime": "1 dia", "confidence": 50
	}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent totals")
}

func TestCheckTotalsTolerance(t *testing.T) {
	b := BudgetResponse{
		Items: []BudgetItem{
			{Description: "x", Quantity: 3, UnitPrice: 33.33, TotalPrice: 99.99},
		},
		TotalValue: 99.99,
	}
	assert.NoError(t, CheckTotals(b))
}
