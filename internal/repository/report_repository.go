package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-report-service/internal/domain"
)

const reportColumns = `id, reporter_id, reporter_email, reporter_name, location, problem_type,
               problem_details, images, status, assigned_to, assigned_to_name, assigned_by,
               assigned_at, hidden_from_admin, hidden_at, created_at, updated_at`

// AssignmentUpdate carries the field group written by a single assignment.
type AssignmentUpdate struct {
	TechnicianID   string
	TechnicianName string
	AssignedBy     string
	AssignedAt     time.Time
}

// ReportRepository encapsulates report persistence. Every mutation touches a
// single row and a single field group atomically; nothing is ever deleted.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	ListVisible(ctx context.Context) ([]domain.Report, error)
	ListByReporter(ctx context.Context, reporterID string) ([]domain.Report, error)
	ListByAssignee(ctx context.Context, technicianID string) ([]domain.Report, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) error
	Assign(ctx context.Context, id string, update AssignmentUpdate) error
	Hide(ctx context.Context, id string, hiddenAt time.Time) error
	CountVisibleByStatus(ctx context.Context) (domain.ReportStats, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates the repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (reporter_id, reporter_email, reporter_name, location, problem_type,
                             problem_details, images, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		report.ReporterID,
		report.ReporterEmail,
		report.ReporterName,
		report.Location,
		report.ProblemType,
		report.ProblemDetails,
		report.Images,
		report.Status,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id=$1`
	var report domain.Report
	if err := r.pool.QueryRow(ctx, query, id).Scan(reportFields(&report)...); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) ListVisible(ctx context.Context) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + `
        FROM reports WHERE NOT hidden_from_admin ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) ListByReporter(ctx context.Context, reporterID string) ([]domain.Report, error) {
	// The hidden flag is deliberately ignored here; the reporter's own
	// history always shows the full record.
	query := `SELECT ` + reportColumns + `
        FROM reports WHERE reporter_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, reporterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) ListByAssignee(ctx context.Context, technicianID string) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + `
        FROM reports WHERE assigned_to=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, technicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) error {
	const query = `UPDATE reports SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) Assign(ctx context.Context, id string, update AssignmentUpdate) error {
	const query = `
        UPDATE reports SET assigned_to=$1, assigned_to_name=$2, assigned_by=$3, assigned_at=$4,
            updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		update.TechnicianID,
		update.TechnicianName,
		update.AssignedBy,
		update.AssignedAt,
		id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) Hide(ctx context.Context, id string, hiddenAt time.Time) error {
	const query = `
        UPDATE reports SET hidden_from_admin=TRUE, hidden_at=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, hiddenAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) CountVisibleByStatus(ctx context.Context) (domain.ReportStats, error) {
	const query = `
        SELECT status, COUNT(*) FROM reports WHERE NOT hidden_from_admin GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return domain.ReportStats{}, err
	}
	defer rows.Close()

	var stats domain.ReportStats
	for rows.Next() {
		var status domain.ReportStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return domain.ReportStats{}, err
		}
		stats.Total += count
		switch status {
		case domain.ReportStatusPending:
			stats.Pending = count
		case domain.ReportStatusInProgress:
			stats.InProgress = count
		case domain.ReportStatusCompleted:
			stats.Completed = count
		}
	}
	return stats, rows.Err()
}

func reportFields(report *domain.Report) []any {
	return []any{
		&report.ID,
		&report.ReporterID,
		&report.ReporterEmail,
		&report.ReporterName,
		&report.Location,
		&report.ProblemType,
		&report.ProblemDetails,
		&report.Images,
		&report.Status,
		&report.AssignedTo,
		&report.AssignedToName,
		&report.AssignedBy,
		&report.AssignedAt,
		&report.HiddenFromAdmin,
		&report.HiddenAt,
		&report.CreatedAt,
		&report.UpdatedAt,
	}
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	var result []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(reportFields(&report)...); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
