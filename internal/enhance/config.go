package enhance

import (
	"time"

	"autobi/domain/report"
)

// Patterns lists column-name fragments per mapping role
type Patterns struct {
	Date     []string `yaml:"date"`
	Value    []string `yaml:"value"`
	Product  []string `yaml:"product"`
	Quantity []string `yaml:"quantity"`
}

// Config holds enhancement settings
type Config struct {
	EligiblePlans []report.Plan                `yaml:"eligible_plans"`
	Model         string                       `yaml:"model"`
	MaxTokens     int                          `yaml:"max_tokens"`
	Timeout       time.Duration                `yaml:"timeout"`
	SampleValues  int                          `yaml:"sample_values"`
	MaxInsights   int                          `yaml:"max_insights"`
	Patterns      map[report.Template]Patterns `yaml:"patterns"`
}

// DefaultConfig returns the standard enhancement settings
func DefaultConfig() Config {
	return Config{
		EligiblePlans: []report.Plan{report.PlanPro, report.PlanEnterprise},
		Model:         "gpt-4.1-mini",
		MaxTokens:     1000,
		Timeout:       20 * time.Second,
		SampleValues:  5,
		MaxInsights:   5,
		Patterns: map[report.Template]Patterns{
			report.TemplateSales: {
				Date:     []string{"data", "date", "dt", "data_venda", "sale_date", "created_at", "timestamp"},
				Value:    []string{"valor", "revenue", "receita", "total", "value", "amount", "price", "preco"},
				Product:  []string{"produto", "product", "item", "sku", "descricao", "description"},
				Quantity: []string{"quantidade", "qty", "qtd", "units", "unidades", "qtde"},
			},
			report.TemplateFinancial: {
				Date:  []string{"data", "date", "dt", "periodo", "month", "mes", "ano", "year"},
				Value: []string{"receita", "revenue", "income", "entrada", "credito", "credit"},
			},
		},
	}
}

// Eligible reports whether a plan may use the language-model provider
func (c Config) Eligible(plan report.Plan) bool {
	for _, p := range c.EligiblePlans {
		if p == plan {
			return true
		}
	}
	return false
}
