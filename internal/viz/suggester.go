// Package viz proposes charts from the inferred schema and column names.
package viz

import (
	"fmt"
	"sort"
	"strings"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
)

// Config holds suggestion limits and name keywords
type Config struct {
	MaxSuggestions    int      `yaml:"max_suggestions"`
	MaxBarCardinality int      `yaml:"max_bar_cardinality"`
	RegionKeywords    []string `yaml:"region_keywords"`
	PaymentKeywords   []string `yaml:"payment_keywords"`
	CategoryKeywords  []string `yaml:"category_keywords"`
}

// DefaultConfig returns the standard suggestion settings
func DefaultConfig() Config {
	return Config{
		MaxSuggestions:    5,
		MaxBarCardinality: 20,
		RegionKeywords:    []string{"regiao", "region", "estado"},
		PaymentKeywords:   []string{"pagamento", "payment"},
		CategoryKeywords:  []string{"categoria", "category"},
	}
}

// Suggester builds chart suggestions
type Suggester struct {
	config Config
}

// NewSuggester creates a suggester
func NewSuggester(config Config) *Suggester {
	return &Suggester{config: config}
}

// Suggest applies the structural rules, then the name-based breakdowns,
// and returns the list sorted by priority and capped
func (s *Suggester) Suggest(ds *dataset.Dataset, schema profiling.Schema) []report.Suggestion {
	suggestions := append(s.structural(ds, schema), s.breakdowns(ds)...)

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority.Rank() < suggestions[j].Priority.Rank()
	})
	if len(suggestions) > s.config.MaxSuggestions {
		suggestions = suggestions[:s.config.MaxSuggestions]
	}
	return suggestions
}

func (s *Suggester) structural(ds *dataset.Dataset, schema profiling.Schema) []report.Suggestion {
	var out []report.Suggestion
	measures := schema.Measures

	if len(schema.Temporal) > 0 && len(measures) > 0 {
		out = append(out, report.Suggestion{
			Type:     "line",
			Title:    fmt.Sprintf("%s over time", measures[0]),
			Icon:     "📈",
			X:        schema.Temporal[0],
			Y:        measures[0],
			Priority: report.PriorityHigh,
		})
	}

	if len(schema.Dimensions) > 0 && len(measures) > 0 {
		dim := schema.Dimensions[0]
		if dataset.DistinctCount(ds.Values(dim)) <= s.config.MaxBarCardinality {
			out = append(out, report.Suggestion{
				Type:     "bar",
				Title:    fmt.Sprintf("%s by %s", measures[0], dim),
				Icon:     "📊",
				X:        dim,
				Y:        measures[0],
				Priority: report.PriorityHigh,
			})
		}
	}

	if len(measures) >= 2 {
		out = append(out, report.Suggestion{
			Type:     "scatter",
			Title:    fmt.Sprintf("%s vs %s", measures[0], measures[1]),
			Icon:     "🔗",
			X:        measures[0],
			Y:        measures[1],
			Priority: report.PriorityMedium,
		})
	}

	if len(measures) > 0 {
		out = append(out, report.Suggestion{
			Type:        "histogram",
			Title:       fmt.Sprintf("Distribution of %s", measures[0]),
			Description: "See how values spread across ranges",
			Icon:        "📊",
			X:           measures[0],
			Column:      measures[0],
			Priority:    report.PriorityMedium,
		})
	}
	return out
}

func (s *Suggester) breakdowns(ds *dataset.Dataset) []report.Suggestion {
	var out []report.Suggestion
	if col := s.RegionColumn(ds); col != "" {
		out = append(out, report.Suggestion{
			Type:        "bar",
			Title:       "Sales by region",
			Description: "Compare performance across regions",
			Icon:        "🗺️",
			Column:      col,
			Priority:    report.PriorityHigh,
		})
	}
	if col := s.PaymentColumn(ds); col != "" {
		out = append(out, report.Suggestion{
			Type:        "bar",
			Title:       "Payment method breakdown",
			Description: "See which payment methods are used most",
			Icon:        "💳",
			Column:      col,
			Priority:    report.PriorityHigh,
		})
	}
	if col := firstMatching(ds.Names(), s.config.CategoryKeywords); col != "" {
		out = append(out, report.Suggestion{
			Type:        "pie",
			Title:       "Share by category",
			Description: "See the share of each category",
			Icon:        "🥧",
			Column:      col,
			Priority:    report.PriorityMedium,
		})
	}
	return out
}

// RegionColumn returns the first region-like column, or ""
func (s *Suggester) RegionColumn(ds *dataset.Dataset) string {
	return firstMatching(ds.Names(), s.config.RegionKeywords)
}

// PaymentColumn returns the first payment-like column, or ""
func (s *Suggester) PaymentColumn(ds *dataset.Dataset) string {
	return firstMatching(ds.Names(), s.config.PaymentKeywords)
}

func firstMatching(names, keywords []string) string {
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return name
			}
		}
	}
	return ""
}
