package forecast

import (
	"context"

	"autobi/domain/core"
	"autobi/domain/dataset"
	"autobi/domain/report"
	"autobi/internal/numeric"
)

// Linear fits value = m*day + b by ordinary least squares, with days
// counted from the earliest date
type Linear struct {
	config Config
}

// NewLinear creates the linear method
func NewLinear(config Config) *Linear {
	return &Linear{config: config}
}

// Name implements Method
func (l *Linear) Name() string { return MethodLinear }

// Forecast implements Method. The closed-form sums are exact for this
// model, so no solver is involved.
func (l *Linear) Forecast(ctx context.Context, points []dataset.Point) (Outcome, error) {
	if len(points) < l.config.MinPoints {
		return Outcome{}, core.ErrInsufficientData
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	origin := points[0].Time
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	lastDay := 0.0
	for i, p := range points {
		xs[i] = float64(core.DaysBetween(origin, p.Time))
		ys[i] = p.Value
		if xs[i] > lastDay {
			lastDay = xs[i]
		}
	}

	xMean := numeric.Mean(xs)
	yMean := numeric.Mean(ys)
	var num, den float64
	for i := range xs {
		dx := xs[i] - xMean
		num += dx * (ys[i] - yMean)
		den += dx * dx
	}
	if den == 0 {
		return Outcome{}, ErrDegenerateSeries
	}
	m := num / den
	b := yMean - m*xMean

	future := make([]float64, l.config.Horizon)
	for i := range future {
		future[i] = m*(lastDay+float64(i+1)) + b
	}

	trend := 0.0
	if yMean != 0 {
		trend = m / yMean * float64(l.config.Horizon) * 100
	}

	short := l.config.ShortHorizon
	if short > len(future) {
		short = len(future)
	}
	horizon := make([]report.ForecastPoint, short)
	for i := 0; i < short; i++ {
		horizon[i] = report.ForecastPoint{Day: i, Value: report.Float(future[i])}
	}

	return Outcome{
		Method:    MethodLinear,
		Next:      numeric.Mean(future),
		TrendPct:  trend,
		Direction: direction(m > 0),
		Points:    horizon,
		Min:       numeric.Min(future),
		Max:       numeric.Max(future),
		Baseline:  yMean,
	}, nil
}
