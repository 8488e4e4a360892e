package dashboard

import (
	"context"

	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
	apperrors "autobi/internal/errors"
	"autobi/internal/quality"
)

// Profile is the structural analysis of a dataset, without a dashboard
type Profile struct {
	Rows        int                   `json:"rows"`
	ColumnKinds profiling.ColumnKinds `json:"column_kinds"`
	Analysis    report.Analysis       `json:"analysis"`
	DataQuality []report.Problem      `json:"data_quality"`
}

// Profile classifies every column and reports relationships, schema,
// automatic KPIs and data quality. An empty dataset yields an empty profile.
func (o *Orchestrator) Profile(ctx context.Context, ds *dataset.Dataset) (*Profile, error) {
	if ds == nil {
		ds = dataset.Empty()
	}
	det := o.classifier.DetectColumnTypes(ds)
	out := &Profile{
		Rows:        ds.Rows(),
		ColumnKinds: det.Kinds,
		Analysis:    emptyAnalysis(),
		DataQuality: []report.Problem{},
	}
	if ds.IsEmpty() {
		return out, nil
	}

	err := apperrors.Recover(func() error {
		analysis, err := o.analyse(ctx, det.Parsed)
		if err != nil {
			return err
		}
		out.Analysis = *analysis
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.Wrap(err, "profile dataset")
	}
	out.DataQuality = guard(o.logger, "data quality", []report.Problem{}, func() []report.Problem {
		return o.scorer.Problems(det.Parsed, det.Kinds)
	})
	return out, nil
}

func emptyAnalysis() report.Analysis {
	schema := profiling.Schema{
		Dimensions:  []string{},
		Measures:    []string{},
		Temporal:    []string{},
		Identifiers: []string{},
	}
	return report.Analysis{
		Columns:       []profiling.ColumnProfile{},
		Relationships: []profiling.RelationshipEdge{},
		Schema:        schema,
		AutoKPIs:      report.KPISet{},
		Suggestions:   []report.Suggestion{},
		QualityLevel:  string(quality.LevelPoor),
	}
}
