package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise-backend/internal/domain"
)

// EngagementRepository implements domain.EngagementRepository using
// PostgreSQL. It only counts rows owned by collaborator subsystems; the
// aggregation core never writes them.
type EngagementRepository struct {
	pool *pgxpool.Pool
}

// NewEngagementRepository creates a new EngagementRepository
func NewEngagementRepository(pool *pgxpool.Pool) *EngagementRepository {
	return &EngagementRepository{pool: pool}
}

var _ domain.EngagementRepository = (*EngagementRepository)(nil)

// CountUnreadAlerts returns the user's unread alert count
func (r *EngagementRepository) CountUnreadAlerts(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM alerts WHERE user_id = $1 AND NOT is_read`,
		userID,
	)
}

// CountActiveGoals returns the user's active goal count
func (r *EngagementRepository) CountActiveGoals(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM goals WHERE user_id = $1 AND status = 'ACTIVE'`,
		userID,
	)
}

// CountPendingSuggestions returns the user's pending suggestion count
func (r *EngagementRepository) CountPendingSuggestions(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM suggestions WHERE user_id = $1 AND status = 'PENDING'`,
		userID,
	)
}

func (r *EngagementRepository) count(ctx context.Context, query string, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
