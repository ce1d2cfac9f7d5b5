package llm

// BuildBudgetJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is embedded in the system prompt as the output contract and
// used locally to validate what comes back.
func BuildBudgetJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"description": map[string]any{"type": "string", "minLength": 1},
			"quantity":    map[string]any{"type": "number", "exclusiveMinimum": 0.0},
			"unitPrice":   map[string]any{"type": "number", "minimum": 0.0},
			"totalPrice":  map[string]any{"type": "number", "minimum": 0.0},
			"category":    map[string]any{"type": "string"},
		},
		"required": []string{"description", "quantity", "unitPrice", "totalPrice"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title":         map[string]any{"type": "string", "minLength": 1},
			"description":   map[string]any{"type": "string"},
			"items":         map[string]any{"type": "array", "minItems": 1, "items": item},
			"totalValue":    map[string]any{"type": "number", "minimum": 0.0},
			"estimatedTime": map[string]any{"type": "string", "minLength": 1},
			"confidence":    map[string]any{"type": "number", "minimum": 0.0, "maximum": 100.0},
		},
		"required": []string{"title", "description", "items", "totalValue", "estimatedTime", "confidence"},
	}
}
