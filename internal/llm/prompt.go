package llm

import (
	"encoding/json"
	"strings"
)

// SystemPrompt composes the system message: role, output contract, and the
// JSON Schema the reply must satisfy. All providers share it so the decoder
// can stay provider-agnostic.
func SystemPrompt() string {
	parts := []string{
		"Você é um especialista em orçamentos e análise de projetos.",
		"Baseado no texto extraído de documentos, você deve gerar um orçamento detalhado e realista.",
		"Responda SEMPRE com JSON válido que satisfaça o JSON Schema abaixo, sem texto adicional.",
		"Cada item deve ter totalPrice = quantity * unitPrice, e totalValue deve ser a soma dos itens.",
		"JSON Schema:",
		mustJSON(BuildBudgetJSONSchema()),
	}
	return strings.Join(parts, "\n")
}

// BuildPrompt renders the instruction prompt from the generation options.
func BuildPrompt(opts GenerationOptions) string {
	var b strings.Builder
	b.WriteString("Gere um orçamento detalhado baseado no documento fornecido.")

	if t := strings.TrimSpace(opts.Template); t != "" {
		b.WriteString("\n\nUse o seguinte template como base:\n")
		b.WriteString(t)
	}
	if opts.IncludeDetails {
		b.WriteString("\n\nIncluir detalhes técnicos e justificativas para cada item.")
	}
	if c := strings.TrimSpace(opts.Currency); c != "" {
		b.WriteString("\n\nUsar moeda: ")
		b.WriteString(c)
	}

	b.WriteString("\n\nConsidere:")
	b.WriteString("\n- Preços realistas para o mercado brasileiro")
	b.WriteString("\n- Margem de lucro adequada")
	b.WriteString("\n- Complexidade técnica do projeto")
	b.WriteString("\n- Tempo estimado de execução")
	b.WriteString("\n- Recursos necessários")

	return b.String()
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
