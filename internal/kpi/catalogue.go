package kpi

import "autobi/domain/report"

// Definition describes a KPI a dashboard template shows by default
type Definition struct {
	Label       string `json:"label"`
	Field       string `json:"field"`
	Aggregation string `json:"aggregation"`
	Format      string `json:"format"`
}

var catalogue = map[report.Template][]Definition{
	report.TemplateSales: {
		{Label: "Total revenue", Field: "revenue", Aggregation: "sum", Format: "currency"},
		{Label: "Average ticket", Field: "revenue", Aggregation: "avg", Format: "currency"},
		{Label: "Total sales", Field: "revenue", Aggregation: "count", Format: "number"},
	},
	report.TemplateFinancial: {
		{Label: "Revenue", Field: "revenue", Aggregation: "sum", Format: "currency"},
		{Label: "Expenses", Field: "expense", Aggregation: "sum", Format: "currency"},
		{Label: "Net profit", Field: "calculated", Aggregation: "revenue-expense", Format: "currency"},
	},
}

// SuggestedKPIs returns the default KPI catalogue of a template. Templates
// without a catalogue return an empty list.
func SuggestedKPIs(template string) ([]Definition, error) {
	t, err := report.ParseTemplate(template)
	if err != nil {
		return nil, err
	}
	defs := catalogue[t]
	out := make([]Definition, len(defs))
	copy(out, defs)
	return out, nil
}
