// Package forecast projects a dated measure 30 days ahead. A closed-form
// linear trend is always available; higher plans try an additive
// Holt-Winters model first and fall back to the linear trend.
package forecast

import (
	"context"
	"errors"

	"autobi/domain/dataset"
	"autobi/domain/report"
)

// ErrDegenerateSeries is returned when a series has no spread in time
var ErrDegenerateSeries = errors.New("series has a single distinct date")

// Outcome is a method's projection. Baseline is the current mean of the
// series the method modelled, used to judge the projected change.
type Outcome struct {
	Method    string
	Next      float64
	TrendPct  float64
	Direction string
	Points    []report.ForecastPoint
	Min       float64
	Max       float64
	Baseline  float64
}

// Method projects a chronological series
type Method interface {
	Name() string
	Forecast(ctx context.Context, points []dataset.Point) (Outcome, error)
}

// Trend directions
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

func direction(positive bool) string {
	if positive {
		return DirectionUp
	}
	return DirectionDown
}
