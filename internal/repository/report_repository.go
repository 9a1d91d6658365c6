package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/denuncia-service/internal/domain"
)

// ReportRepository defines persistence access for denuncias.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	Update(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	GetByOwnerAndTitle(ctx context.Context, ownerID, title string) (*domain.Report, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Report, error)
	ListAll(ctx context.Context) ([]domain.Report, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a Postgres-backed implementation.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `
        id, title, description, evidence_url, location, category, status,
        is_deleted, owner_id, owner_name, created_at, updated_at, resolved_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	location, err := json.Marshal(report.Location)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO reports (title, description, evidence_url, location, category, status, owner_id, owner_name)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		report.Title,
		report.Description,
		report.EvidenceURL,
		location,
		report.Category,
		report.Status,
		report.OwnerID,
		report.OwnerName,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

func (r *reportRepository) Update(ctx context.Context, report *domain.Report) error {
	const query = `
        UPDATE reports
        SET status=$1, is_deleted=$2, resolved_at=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		report.Status,
		report.IsDeleted,
		report.ResolvedAt,
		report.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanReport(row)
}

func (r *reportRepository) GetByOwnerAndTitle(ctx context.Context, ownerID, title string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE owner_id=$1 AND title=$2`
	row := r.pool.QueryRow(ctx, query, ownerID, title)
	return scanReport(row)
}

func (r *reportRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE owner_id=$1 AND NOT is_deleted ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) ListAll(ctx context.Context) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE NOT is_deleted ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var (
		report   domain.Report
		location []byte
	)
	if err := row.Scan(
		&report.ID,
		&report.Title,
		&report.Description,
		&report.EvidenceURL,
		&location,
		&report.Category,
		&report.Status,
		&report.IsDeleted,
		&report.OwnerID,
		&report.OwnerName,
		&report.CreatedAt,
		&report.UpdatedAt,
		&report.ResolvedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(location, &report.Location); err != nil {
		return nil, err
	}
	return &report, nil
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}
