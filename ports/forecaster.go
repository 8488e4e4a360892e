package ports

import (
	"context"

	"autobi/domain/dataset"
	"autobi/domain/report"
)

// Forecaster projects a dated measure forward. Points are chronological.
// An empty section means the series could not support a forecast.
type Forecaster interface {
	Predict(ctx context.Context, points []dataset.Point, plan report.Plan) report.PredictionSection
}
