package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"

	"autobi/domain/core"
	"autobi/domain/dataset"
	"autobi/domain/report"
	"autobi/internal/aggregate"
	"autobi/internal/numeric"
)

// HoltWinters is additive triple exponential smoothing over the daily
// means of a series. Smoothing weights are fitted by Nelder-Mead on the
// one-step-ahead squared error.
type HoltWinters struct {
	config Config
}

// NewHoltWinters creates the seasonal method
func NewHoltWinters(config Config) *HoltWinters {
	return &HoltWinters{config: config}
}

// Name implements Method
func (h *HoltWinters) Name() string { return MethodHoltWinters }

// Forecast implements Method
func (h *HoltWinters) Forecast(ctx context.Context, points []dataset.Point) (Outcome, error) {
	series := DailySeries(points)
	m := h.config.SeasonLength
	if m < 2 || len(series) < m*h.config.MinSeasons {
		return Outcome{}, fmt.Errorf("holt-winters needs %d days: %w", m*h.config.MinSeasons, core.ErrInsufficientData)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			fit := smooth(series, m, squash(x[0]), squash(x[1]), squash(x[2]))
			return fit.sse
		},
	}
	// an evaluation-limit status still carries the best point found
	result, err := optimize.Minimize(problem, []float64{0, -2, -1}, &optimize.Settings{FuncEvaluations: 2000}, &optimize.NelderMead{})
	if result == nil || math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return Outcome{}, fmt.Errorf("fit holt-winters: no finite optimum: %v", err)
	}

	fit := smooth(series, m, squash(result.X[0]), squash(result.X[1]), squash(result.X[2]))
	sigma := math.Sqrt(fit.sse / float64(fit.steps))
	z := distuv.UnitNormal.Quantile(0.5 + h.config.IntervalLevel/2)

	future := make([]float64, h.config.Horizon)
	lower := make([]float64, h.config.Horizon)
	upper := make([]float64, h.config.Horizon)
	n := len(series)
	for i := range future {
		step := float64(i + 1)
		future[i] = fit.level + step*fit.trend + fit.season[n-m+i%m]
		width := z * sigma * math.Sqrt(step)
		lower[i] = future[i] - width
		upper[i] = future[i] + width
	}
	for _, x := range future {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Outcome{}, fmt.Errorf("holt-winters produced a non-finite projection")
		}
	}

	short := h.config.ShortHorizon
	if short > len(future) {
		short = len(future)
	}
	horizon := make([]report.ForecastPoint, short)
	for i := 0; i < short; i++ {
		lo, hi := report.Float(lower[i]), report.Float(upper[i])
		horizon[i] = report.ForecastPoint{Day: i + 1, Value: report.Float(future[i]), Lower: &lo, Upper: &hi}
	}

	recent := series
	if len(recent) > h.config.RecentWindow {
		recent = recent[len(recent)-h.config.RecentWindow:]
	}
	current := numeric.Mean(recent)
	next := numeric.Mean(future)
	trend := 0.0
	if current != 0 {
		trend = (next - current) / current * 100
	}

	return Outcome{
		Method:    MethodHoltWinters,
		Next:      next,
		TrendPct:  trend,
		Direction: direction(trend > 0),
		Points:    horizon,
		Min:       numeric.Min(lower),
		Max:       numeric.Max(upper),
		Baseline:  numeric.Mean(series),
	}, nil
}

type smoothing struct {
	level  float64
	trend  float64
	season []float64
	sse    float64
	steps  int
}

// smooth runs the additive recurrences. The first season initialises the
// level and seasonal offsets; the first two seasons give the trend.
func smooth(y []float64, m int, alpha, beta, gamma float64) smoothing {
	n := len(y)
	first := numeric.Mean(y[:m])
	second := numeric.Mean(y[m : 2*m])

	s := smoothing{
		level:  first,
		trend:  (second - first) / float64(m),
		season: make([]float64, n),
	}
	for i := 0; i < m; i++ {
		s.season[i] = y[i] - first
	}

	for t := m; t < n; t++ {
		prevLevel, prevTrend := s.level, s.trend
		seasonal := s.season[t-m]

		err := y[t] - (prevLevel + prevTrend + seasonal)
		s.sse += err * err
		s.steps++

		s.level = alpha*(y[t]-seasonal) + (1-alpha)*(prevLevel+prevTrend)
		s.trend = beta*(s.level-prevLevel) + (1-beta)*prevTrend
		s.season[t] = gamma*(y[t]-s.level) + (1-gamma)*seasonal
	}
	return s
}

// squash maps the real line onto (0, 1)
func squash(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// DailySeries averages a chronological series per calendar day so that it
// stays in per-row units. Days without observations are linearly
// interpolated between their observed neighbours.
func DailySeries(points []dataset.Point) []float64 {
	days := aggregate.ByDay(points)
	if len(days) == 0 {
		return nil
	}
	start := days[0].Start
	offset := func(b aggregate.Bucket) int {
		return int(b.Start.Sub(start) / (24 * time.Hour))
	}

	series := make([]float64, offset(days[len(days)-1])+1)
	for i, d := range days {
		mean := d.Sum / float64(d.Count)
		at := offset(d)
		series[at] = mean
		if i == 0 {
			continue
		}
		prevAt := offset(days[i-1])
		prev := series[prevAt]
		gap := float64(at - prevAt)
		for k := prevAt + 1; k < at; k++ {
			series[k] = prev + (mean-prev)*float64(k-prevAt)/gap
		}
	}
	return series
}
