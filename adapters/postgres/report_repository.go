package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"autobi/domain/core"
	"autobi/domain/report"
	"autobi/internal/errors"
	"autobi/ports"
)

const defaultListLimit = 20

// reportRepository implements the ReportRepository interface
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &reportRepository{db: db}
}

// Save stores a sealed report. Report ids are content-derived, so saving
// the same report twice keeps the first row.
func (r *reportRepository) Save(ctx context.Context, source string, rep *report.Report) error {
	if rep == nil || rep.ID == "" {
		return errors.InvalidInput("report must be sealed before saving")
	}
	payload, err := jsonPayload(rep)
	if err != nil {
		return err
	}

	query := `INSERT INTO reports (id, template, status, source, payload)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO NOTHING`

	_, err = r.db.ExecContext(ctx, query, rep.ID.String(), rep.Template, string(rep.Status), source, payload)
	if err != nil {
		return errors.DatabaseError("failed to save report", err)
	}
	return nil
}

// GetByID retrieves a stored report by its ID
func (r *reportRepository) GetByID(ctx context.Context, id core.ReportID) (*report.Report, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM reports WHERE id = $1`, id.String())
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound(fmt.Sprintf("report %s", id))
		}
		return nil, errors.DatabaseError("failed to get report", err)
	}
	return decodeReport(payload)
}

// ListRecent returns the newest reports first
func (r *reportRepository) ListRecent(ctx context.Context, limit int) ([]ports.ReportSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `SELECT id, template, status, source, created_at
	FROM reports
	ORDER BY created_at DESC
	LIMIT $1`

	summaries := []ports.ReportSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, limit); err != nil {
		return nil, errors.DatabaseError("failed to list reports", err)
	}
	return summaries, nil
}

func jsonPayload(rep *report.Report) ([]byte, error) {
	payload, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return payload, nil
}

func decodeReport(payload []byte) (*report.Report, error) {
	var rep report.Report
	if err := json.Unmarshal(payload, &rep); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &rep, nil
}
