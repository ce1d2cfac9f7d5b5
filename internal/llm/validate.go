package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// moneyEpsilon is the tolerance for float arithmetic on money fields.
const moneyEpsilon = 1e-6

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// CheckTotals verifies the budget's arithmetic: each item's totalPrice must
// equal quantity * unitPrice and totalValue must equal the sum of the item
// totals, within moneyEpsilon.
func CheckTotals(b BudgetResponse) error {
	var sum float64
	for i, item := range b.Items {
		want := item.Quantity * item.UnitPrice
		if math.Abs(item.TotalPrice-want) > moneyEpsilon {
			return fmt.Errorf("item %d: totalPrice %.2f != quantity*unitPrice %.2f", i, item.TotalPrice, want)
		}
		sum += item.TotalPrice
	}
	if math.Abs(b.TotalValue-sum) > moneyEpsilon {
		return fmt.Errorf("totalValue %.2f != sum of items %.2f", b.TotalValue, sum)
	}
	return nil
}
