package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences removes a leading/trailing markdown code fence. Some
// models wrap their JSON in ```json blocks even when told not to.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], "{[") {
		// drop the language tag line ("json", "JSON", ...)
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// DecodeBudget turns raw model output into a validated BudgetResponse:
// fences stripped, schema checked, arithmetic checked.
func DecodeBudget(raw string) (BudgetResponse, error) {
	content := []byte(StripCodeFences(raw))

	if err := ValidateJSONAgainstSchema(BuildBudgetJSONSchema(), content); err != nil {
		return BudgetResponse{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var out BudgetResponse
	if err := json.Unmarshal(content, &out); err != nil {
		return BudgetResponse{}, fmt.Errorf("unmarshal budget: %w", err)
	}
	if err := CheckTotals(out); err != nil {
		return BudgetResponse{}, fmt.Errorf("inconsistent totals: %w", err)
	}
	return out, nil
}
