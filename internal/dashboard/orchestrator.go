// Package dashboard assembles the analysis report for a dataset. It runs
// classification once, resolves the report columns, builds the template's
// KPIs and charts and fans out to the insight, quality, forecast and alert
// engines. Analyze always returns a well-formed report unless the request
// itself is invalid.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"autobi/domain/core"
	"autobi/domain/dataset"
	"autobi/domain/profiling"
	"autobi/domain/report"
	"autobi/internal"
	"autobi/internal/aggregate"
	"autobi/internal/alerts"
	"autobi/internal/classify"
	"autobi/internal/enhance"
	apperrors "autobi/internal/errors"
	"autobi/internal/forecast"
	"autobi/internal/insights"
	"autobi/internal/kpi"
	"autobi/internal/numeric"
	"autobi/internal/quality"
	"autobi/internal/relationship"
	"autobi/internal/schema"
	"autobi/internal/viz"
	"autobi/ports"
)

// Goal is a user-declared target
type Goal struct {
	Metric   string  `json:"metric" yaml:"metric"`
	Target   float64 `json:"target" yaml:"target"`
	Deadline string  `json:"deadline,omitempty" yaml:"deadline"`
}

// Request is one analysis invocation. Now anchors relative periods; when
// zero, the latest date in the data is used.
type Request struct {
	Dataset     *dataset.Dataset
	Mapping     profiling.Mapping
	Template    string
	Plan        string
	Period      string
	Compare     bool
	Industry    string
	Goals       []Goal
	AutoMapping bool
	Now         time.Time
}

type options struct {
	template report.Template
	plan     report.Plan
	period   report.Period
}

func parseOptions(req Request) (options, error) {
	template, err := report.ParseTemplate(req.Template)
	if err != nil {
		return options{}, err
	}
	plan, err := report.ParsePlan(req.Plan)
	if err != nil {
		return options{}, err
	}
	period, err := report.ParsePeriod(req.Period)
	if err != nil {
		return options{}, err
	}
	return options{template: template, plan: plan, period: period}, nil
}

// Orchestrator runs the whole analysis pipeline. It holds no per-call state
// and is safe for concurrent use.
type Orchestrator struct {
	config     Config
	classifier *classify.Classifier
	relations  *relationship.Detector
	kpis       *kpi.Engine
	suggester  *viz.Suggester
	scorer     *quality.Scorer
	insights   *insights.Generator
	alerts     *alerts.Engine
	forecaster ports.Forecaster
	enhancers  *enhance.Router
	logger     *internal.Logger
}

// NewOrchestrator wires the engines. A nil forecaster uses the built-in
// linear/Holt-Winters engine; a nil router only offers the deterministic
// enhancement provider.
func NewOrchestrator(settings Settings, forecaster ports.Forecaster, enhancers *enhance.Router, logger *internal.Logger) *Orchestrator {
	if forecaster == nil {
		forecaster = forecast.NewEngine(settings.Forecast, logger)
	}
	if enhancers == nil {
		enhancers = enhance.NewRouter(settings.Enhance, enhance.NewDeterministic(settings.Enhance), nil)
	}
	return &Orchestrator{
		config:     settings.Dashboard,
		classifier: classify.NewClassifier(settings.Classify),
		relations:  relationship.NewDetector(settings.Relationship),
		kpis:       kpi.NewEngine(settings.KPI),
		suggester:  viz.NewSuggester(settings.Viz),
		scorer:     quality.NewScorer(settings.Quality),
		insights:   insights.NewGenerator(settings.Insights),
		alerts:     alerts.NewEngine(settings.Alerts),
		forecaster: forecaster,
		enhancers:  enhancers,
		logger:     logger.With("Dashboard"),
	}
}

// ValidateTemplate checks a template name the way Analyze does
func ValidateTemplate(name string) error {
	_, err := report.ParseTemplate(name)
	return apperrors.Invalid(err)
}

// Analyze builds the report for req. Only invalid requests and context
// cancellation return an error; input-shape problems and failing rules
// degrade to the canonical empty report or to omitted sections.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*report.Report, error) {
	opts, err := parseOptions(req)
	if err != nil {
		return nil, apperrors.Invalid(err)
	}
	ds := req.Dataset
	if ds == nil {
		ds = dataset.Empty()
	}

	var rep *report.Report
	err = apperrors.Recover(func() error {
		var buildErr error
		rep, buildErr = o.build(ctx, ds, req, opts)
		return buildErr
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if core.IsInputShapeError(err) {
			o.logger.Debug("returning empty %s report: %v", opts.template, err)
		} else {
			o.logger.Warn("analysis failed, returning empty %s report: %v", opts.template, err)
		}
		rep = o.empty(opts)
	}

	o.enrich(rep, req, opts)
	if err := rep.Seal(); err != nil {
		return nil, apperrors.Wrap(err, "seal report")
	}
	return rep, nil
}

func (o *Orchestrator) build(ctx context.Context, ds *dataset.Dataset, req Request, opts options) (*report.Report, error) {
	if ds.IsEmpty() {
		return nil, core.ErrEmptyDataset
	}

	det := o.classifier.DetectColumnTypes(ds)
	data := o.filterPeriod(det.Parsed, periodColumn(det.Kinds, req.Mapping), opts.period, req.Now)
	if data.Rows() == 0 {
		return nil, fmt.Errorf("%w: no rows in period %s", core.ErrEmptyDataset, opts.period)
	}
	if len(det.Kinds.Numeric) == 0 {
		return nil, core.ErrNoNumericColumn
	}

	analysis, err := o.analyse(ctx, data)
	if err != nil {
		return nil, err
	}

	provider := o.enhancers.For(opts.plan)
	mapping := o.resolveMapping(ctx, provider, data, det.Kinds, analysis.Columns, req, opts)

	rep := report.New(string(opts.template))
	rep.Analysis = analysis

	switch opts.template {
	case report.TemplateSales:
		o.sales(rep, data, det.Kinds, mapping)
	case report.TemplateFinancial:
		o.financial(rep, data, mapping)
	default:
		o.generic(rep, data, mapping, analysis.Schema, analysis.AutoKPIs)
	}

	rep.Insights = guard(o.logger, "insights", []report.Insight{}, func() []report.Insight {
		found := o.insights.Generate(insights.Input{
			Dataset: data,
			Kinds:   det.Kinds,
			Date:    mapping.Date,
			Value:   mapping.Value,
			KPIs:    rep.KPIs,
		})
		phrased, err := provider.PhraseInsights(ctx, ports.InsightRequest{
			Template: string(opts.template),
			KPIs:     rep.KPIs,
			Insights: found,
			Rows:     data.Rows(),
		})
		if err != nil {
			o.logger.Warn("insight phrasing failed: %v", err)
			return found
		}
		return phrased
	})
	rep.DataQuality = guard(o.logger, "data quality", []report.Problem{}, func() []report.Problem {
		return o.scorer.Problems(data, det.Kinds)
	})
	rep.ChartSuggestions = analysis.Suggestions
	rep.Predictions = guard(o.logger, "predictions", report.PredictionSection{}, func() report.PredictionSection {
		if mapping.Date == "" {
			return report.PredictionSection{}
		}
		points := aggregate.Points(data.Values(mapping.Date), data.Values(mapping.Value))
		return o.forecaster.Predict(ctx, points, opts.plan)
	})
	rep.Alerts = guard(o.logger, "alerts", []report.Alert{}, func() []report.Alert {
		return o.alerts.Generate(alerts.Input{
			Dataset: data,
			Value:   det.Kinds.Numeric[0],
			Date:    mapping.Date,
			KPIs:    rep.KPIs,
			Plan:    opts.plan,
		})
	})

	rep.Metadata.DetectedColumns = kpi.Detected(mapping)
	rep.Metadata.ColumnKinds = det.Kinds
	rep.Metadata.Enhancement = provider.Name()
	return rep, nil
}

// analyse runs the structural pipeline: semantic classification,
// relationships, schema, automatic KPIs, quality score and chart suggestions
func (o *Orchestrator) analyse(ctx context.Context, data *dataset.Dataset) (*report.Analysis, error) {
	profiles, err := o.classifier.ClassifyAll(ctx, data)
	if err != nil {
		return nil, err
	}
	edges, err := o.relations.Detect(ctx, data, profiles)
	if err != nil {
		return nil, err
	}
	inferred := schema.Infer(profiles)
	score := numeric.Round(o.scorer.Score(data, profiles), 1)
	return &report.Analysis{
		Columns:       profiles,
		Relationships: edges,
		Schema:        inferred,
		AutoKPIs:      o.kpis.Auto(data, inferred),
		Suggestions:   o.suggester.Suggest(data, inferred),
		QualityScore:  report.Float(score),
		QualityLevel:  string(o.scorer.Level(score)),
	}, nil
}

// resolveMapping applies the explicit override, then (when asked) the
// provider's suggestion for roles the override leaves open, then keyword
// resolution
func (o *Orchestrator) resolveMapping(ctx context.Context, provider ports.EnhancementProvider, ds *dataset.Dataset, kinds profiling.ColumnKinds, profiles []profiling.ColumnProfile, req Request, opts options) profiling.Mapping {
	override := req.Mapping
	if req.AutoMapping {
		suggested, err := provider.SuggestMapping(ctx, ports.MappingRequest{
			Template: string(opts.template),
			Dataset:  ds,
			Profiles: profiles,
		})
		if err != nil {
			o.logger.Warn("mapping suggestion failed: %v", err)
		} else {
			override = overlay(override, usable(suggested, kinds))
		}
	}
	return o.kpis.Resolve(ds, kinds, override)
}

// usable drops suggested roles naming a column of the wrong kind
func usable(m profiling.Mapping, kinds profiling.ColumnKinds) profiling.Mapping {
	if !contains(kinds.Numeric, m.Value) {
		m.Value = ""
	}
	if !contains(kinds.Numeric, m.Quantity) {
		m.Quantity = ""
	}
	if !contains(kinds.Date, m.Date) {
		m.Date = ""
	}
	if !contains(kinds.Categorical, m.Product) {
		m.Product = ""
	}
	return m
}

func overlay(explicit, suggested profiling.Mapping) profiling.Mapping {
	if explicit.Value == "" {
		explicit.Value = suggested.Value
	}
	if explicit.Quantity == "" {
		explicit.Quantity = suggested.Quantity
	}
	if explicit.Date == "" {
		explicit.Date = suggested.Date
	}
	if explicit.Product == "" {
		explicit.Product = suggested.Product
	}
	return explicit
}

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// periodColumn is the date column used for period filtering
func periodColumn(kinds profiling.ColumnKinds, override profiling.Mapping) string {
	if contains(kinds.Date, override.Date) {
		return override.Date
	}
	if len(kinds.Date) > 0 {
		return kinds.Date[0]
	}
	return ""
}

// filterPeriod keeps rows dated on or after the period start. Rows without
// a date are dropped whenever a period applies.
func (o *Orchestrator) filterPeriod(ds *dataset.Dataset, dateCol string, period report.Period, now time.Time) *dataset.Dataset {
	if period == report.PeriodAll || dateCol == "" {
		return ds
	}
	dates := ds.Values(dateCol)
	if now.IsZero() {
		now = latest(dates)
	}

	var start time.Time
	switch period {
	case report.PeriodLast30Days:
		start = now.AddDate(0, 0, -30)
	case report.PeriodLast90Days:
		start = now.AddDate(0, 0, -90)
	case report.PeriodYearToDate:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	}
	return ds.Filter(func(row int) bool {
		v := dates[row]
		return v.IsTimestamp() && !v.AsTime().Before(start)
	})
}

func latest(values []dataset.Value) time.Time {
	var max time.Time
	for _, v := range values {
		if v.IsTimestamp() && v.AsTime().After(max) {
			max = v.AsTime()
		}
	}
	return max
}

// guard runs one report section, logging and replacing it with fallback
// when it panics
func guard[T any](logger *internal.Logger, section string, fallback T, fn func() T) T {
	var out T
	err := apperrors.Recover(func() error {
		out = fn()
		return nil
	})
	if err != nil {
		logger.Warn("%s skipped: %v", section, err)
		return fallback
	}
	return out
}
