package forecast

import (
	"context"
	"fmt"
	"math"

	"autobi/domain/dataset"
	"autobi/domain/report"
	"autobi/internal"
	"autobi/internal/numeric"
)

// Engine picks a method by plan, falls back to the linear trend when the
// advanced method fails, and grades the result
type Engine struct {
	config   Config
	linear   Method
	advanced Method
	logger   *internal.Logger
}

// NewEngine creates an engine with the linear and Holt-Winters methods
func NewEngine(config Config, logger *internal.Logger) *Engine {
	return &Engine{
		config:   config,
		linear:   NewLinear(config),
		advanced: NewHoltWinters(config),
		logger:   logger.With("Forecast"),
	}
}

// WithAdvanced replaces the advanced method
func (e *Engine) WithAdvanced(m Method) *Engine {
	clone := *e
	clone.advanced = m
	return &clone
}

// Predict implements ports.Forecaster. Series with fewer than MinPoints
// observations, or that no method can fit, yield an empty section.
func (e *Engine) Predict(ctx context.Context, points []dataset.Point, plan report.Plan) report.PredictionSection {
	if len(points) < e.config.MinPoints {
		return report.PredictionSection{}
	}

	outcome, err := e.run(ctx, points, plan)
	if err != nil {
		e.logger.Debug("no forecast: %v", err)
		return report.PredictionSection{}
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	return report.PredictionSection{Result: &report.Prediction{
		Method:               outcome.Method,
		NextPeriodPrediction: report.Float(outcome.Next),
		TrendDirection:       outcome.Direction,
		TrendPercentage:      report.Float(outcome.TrendPct),
		Confidence:           e.Confidence(values),
		ShortHorizon:         outcome.Points,
		MinPredicted:         report.Float(outcome.Min),
		MaxPredicted:         report.Float(outcome.Max),
		Recommendations:      e.Recommendations(outcome),
	}}
}

func (e *Engine) run(ctx context.Context, points []dataset.Point, plan report.Plan) (Outcome, error) {
	if e.config.Policy[plan] == policyAdvanced && e.advanced != nil {
		outcome, err := e.advanced.Forecast(ctx, points)
		if err == nil {
			return outcome, nil
		}
		e.logger.Debug("%s unavailable, using %s: %v", e.advanced.Name(), e.linear.Name(), err)
	}
	outcome, err := e.linear.Forecast(ctx, points)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", e.linear.Name(), err)
	}
	return outcome, nil
}

// Confidence grades a series by its length and coefficient of variation
func (e *Engine) Confidence(values []float64) string {
	n := len(values)
	cv := numeric.CV(values)
	switch {
	case n >= e.config.HighRows && cv < e.config.HighMaxCV:
		return "high"
	case n >= e.config.MediumRows && cv < e.config.MediumMaxCV:
		return "medium"
	}
	return "low"
}

// Recommendations phrase the trend and the projected change against the
// current mean
func (e *Engine) Recommendations(o Outcome) []string {
	recs := []string{}
	magnitude := math.Abs(o.TrendPct)
	switch {
	case o.Direction == DirectionUp && magnitude >= e.config.TrendAlertPct:
		recs = append(recs, fmt.Sprintf("📈 Positive trend of %.1f%% - keep up the pace!", magnitude))
	case o.Direction == DirectionDown && magnitude >= e.config.TrendAlertPct:
		recs = append(recs, fmt.Sprintf("📉 Warning: projected drop of %.1f%% - action needed", magnitude))
	default:
		recs = append(recs, "➡️ Stable trend - stay the course")
	}

	switch {
	case o.Next > o.Baseline*e.config.SurgeRatio:
		recs = append(recs, "🚀 Accelerated growth expected - get ready to scale")
	case o.Next < o.Baseline*e.config.DeclineRatio:
		recs = append(recs, "⚠️ Significant decline - review your strategy")
	}
	return recs
}
