package ports

import (
	"context"
	"time"

	"autobi/domain/core"
	"autobi/domain/report"
)

// ReportSummary is a listing entry for stored reports
type ReportSummary struct {
	ID        core.ReportID `db:"id" json:"id"`
	Template  string        `db:"template" json:"template"`
	Status    string        `db:"status" json:"status"`
	Source    string        `db:"source" json:"source"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// ReportRepository persists generated reports
type ReportRepository interface {
	Save(ctx context.Context, source string, r *report.Report) error
	GetByID(ctx context.Context, id core.ReportID) (*report.Report, error)
	ListRecent(ctx context.Context, limit int) ([]ReportSummary, error)
}
