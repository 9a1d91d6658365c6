package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/denuncia-service/internal/domain"
)

// GroupCount is one bucket of a grouped aggregate.
type GroupCount struct {
	Key   string `json:"_id"`
	Count int64  `json:"count"`
}

// GeneralStats mirrors the admin dashboard aggregate. Soft-deleted reports
// still count here; only listings hide them.
type GeneralStats struct {
	TotalReports      int64        `json:"totalDenuncias"`
	ReportsByCategory []GroupCount `json:"denunciasPorCategoria"`
	ReportsByStatus   []GroupCount `json:"denunciasPorEstado"`
	AvgResolutionDays float64      `json:"promedioDiasSolucion"`
	TotalAccounts     int64        `json:"totalUsuarios"`
}

// StatsRepository aggregates dashboard figures.
type StatsRepository interface {
	GeneralView(ctx context.Context) (*GeneralStats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns a Postgres-backed implementation.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) GeneralView(ctx context.Context) (*GeneralStats, error) {
	stats := &GeneralStats{}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports`).Scan(&stats.TotalReports); err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE NOT is_deleted`).Scan(&stats.TotalAccounts); err != nil {
		return nil, err
	}

	byCategory, err := r.groupCount(ctx, `SELECT category, COUNT(*) FROM reports GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, err
	}
	stats.ReportsByCategory = byCategory

	byStatus, err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM reports GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	stats.ReportsByStatus = byStatus

	const avgQuery = `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 86400.0), 0)
        FROM reports
        WHERE status = $1 AND resolved_at IS NOT NULL`
	if err := r.pool.QueryRow(ctx, avgQuery, domain.ReportStatusResolved).Scan(&stats.AvgResolutionDays); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *statsRepository) groupCount(ctx context.Context, query string) ([]GroupCount, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []GroupCount
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
