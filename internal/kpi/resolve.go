package kpi

import (
	"strings"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal/numeric"
)

// Resolve picks the value, quantity, date and product columns for the
// report-level charts. An override naming an existing column wins; then
// keyword matches on column names; the value column finally falls back to
// the numeric column with the largest positive sum.
func (e *Engine) Resolve(ds *dataset.Dataset, kinds profiling.ColumnKinds, override profiling.Mapping) profiling.Mapping {
	var m profiling.Mapping

	m.Value = existing(ds, override.Value)
	if m.Value == "" {
		m.Value = e.valueColumn(ds, kinds.Numeric)
	}

	m.Quantity = existing(ds, override.Quantity)
	if m.Quantity == "" {
		for _, col := range kinds.Numeric {
			if col != m.Value && matches(col, e.config.Keywords.Quantity) {
				m.Quantity = col
				break
			}
		}
	}

	m.Date = existing(ds, override.Date)
	if m.Date == "" && len(kinds.Date) > 0 {
		m.Date = kinds.Date[0]
	}

	m.Product = existing(ds, override.Product)
	if m.Product == "" {
		m.Product = e.productColumn(kinds.Categorical)
	}
	return m
}

func (e *Engine) valueColumn(ds *dataset.Dataset, numericCols []string) string {
	if len(numericCols) == 0 {
		return ""
	}
	for _, col := range numericCols {
		if matches(col, e.config.Keywords.Value) {
			return col
		}
	}

	best, bestSum := "", 0.0
	for _, col := range numericCols {
		if s := numeric.Sum(dataset.Floats(ds.Values(col))); s > bestSum {
			best, bestSum = col, s
		}
	}
	if best == "" {
		return numericCols[0]
	}
	return best
}

func (e *Engine) productColumn(categorical []string) string {
	for _, col := range categorical {
		if matches(col, e.config.Keywords.Product) {
			return col
		}
	}
	for _, col := range categorical {
		if !e.IsCustomerLike(col) {
			return col
		}
	}
	return ""
}

// IsCustomerLike reports a column naming people rather than products
func (e *Engine) IsCustomerLike(col string) bool {
	return matches(col, e.config.Keywords.Customer)
}

// Detected converts a resolved mapping to its report form
func Detected(m profiling.Mapping) report.DetectedColumns {
	return report.DetectedColumns{
		Value:    report.StringPtr(m.Value),
		Quantity: report.StringPtr(m.Quantity),
		Date:     report.StringPtr(m.Date),
		Product:  report.StringPtr(m.Product),
	}
}

func existing(ds *dataset.Dataset, col string) string {
	if col != "" && ds.Has(col) {
		return col
	}
	return ""
}

func matches(col string, keywords []string) bool {
	lower := strings.ToLower(col)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
