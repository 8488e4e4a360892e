// Package enhance provides column-mapping suggestions and insight phrasing.
// The deterministic provider is always available; the language-model
// decorator falls back to it on any failure.
package enhance

import (
	"context"
	"strings"

	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/ports"
)

// Deterministic matches column names against per-template patterns
type Deterministic struct {
	config Config
}

var _ ports.EnhancementProvider = (*Deterministic)(nil)

// NewDeterministic creates the pattern-based provider
func NewDeterministic(config Config) *Deterministic {
	return &Deterministic{config: config}
}

// Name implements ports.EnhancementProvider
func (d *Deterministic) Name() string { return "deterministic" }

// SuggestMapping picks, per role, the first column whose cleaned name
// contains a pattern or is contained in one. Unknown templates yield an
// empty mapping.
func (d *Deterministic) SuggestMapping(_ context.Context, req ports.MappingRequest) (profiling.Mapping, error) {
	if req.Dataset == nil {
		return profiling.Mapping{}, nil
	}
	patterns, ok := d.config.Patterns[report.Template(req.Template)]
	if !ok {
		return profiling.Mapping{}, nil
	}
	names := req.Dataset.Names()
	return profiling.Mapping{
		Date:     firstMatch(names, patterns.Date),
		Value:    firstMatch(names, patterns.Value),
		Product:  firstMatch(names, patterns.Product),
		Quantity: firstMatch(names, patterns.Quantity),
	}, nil
}

// PhraseInsights returns the computed insights unchanged
func (d *Deterministic) PhraseInsights(_ context.Context, req ports.InsightRequest) ([]report.Insight, error) {
	if req.Insights == nil {
		return []report.Insight{}, nil
	}
	return req.Insights, nil
}

func firstMatch(columns, patterns []string) string {
	for _, col := range columns {
		name := clean(col)
		if name == "" {
			continue
		}
		for _, p := range patterns {
			pattern := clean(p)
			if strings.Contains(name, pattern) || strings.Contains(pattern, name) {
				return col
			}
		}
	}
	return ""
}

func clean(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", " ", "").Replace(s)
}
