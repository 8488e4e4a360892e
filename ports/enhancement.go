package ports

import (
	"context"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
)

// MappingRequest carries what an enhancement provider may see of a dataset
type MappingRequest struct {
	Template string
	Dataset  *dataset.Dataset
	Profiles []profiling.ColumnProfile
}

// InsightRequest carries the computed facts an insight phrasing is based on
type InsightRequest struct {
	Template string
	KPIs     report.KPISet
	Insights []report.Insight
	Rows     int
}

// EnhancementProvider suggests column mappings and phrases insights.
// Implementations must always return a usable result; the deterministic
// provider never fails.
type EnhancementProvider interface {
	Name() string
	SuggestMapping(ctx context.Context, req MappingRequest) (profiling.Mapping, error)
	PhraseInsights(ctx context.Context, req InsightRequest) ([]report.Insight, error)
}
