package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardStats aggregates the headline numbers for the admin console.
type DashboardStats struct {
	TotalUsers   int64 `json:"total_users"`
	TotalSellers int64 `json:"total_sellers"`
	TotalOrders  int64 `json:"total_orders"`
	PaidRevenue  int64 `json:"paid_revenue"`
}

type Repository interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{db: pool}
}

func (r *postgresRepository) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'user'),
			(SELECT COUNT(*) FROM sellers),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(amount), 0) FROM payment WHERE status = 'paid')
	`

	var stats DashboardStats
	err := r.db.QueryRow(ctx, query).Scan(&stats.TotalUsers, &stats.TotalSellers, &stats.TotalOrders, &stats.PaidRevenue)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to select dashboard stats: %w", err)
	}

	return &stats, nil
}
