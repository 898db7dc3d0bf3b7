package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise-backend/internal/domain"
)

// PreferenceRepository implements domain.SavingsPreferenceRepository using
// PostgreSQL
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// GetByUser retrieves the user's savings preference
func (r *PreferenceRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.SavingsPreference, error) {
	var (
		pref domain.SavingsPreference
		goal pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx,
		`SELECT user_id, monthly_goal, created_at, updated_at
		FROM savings_preferences
		WHERE user_id = $1`,
		userID,
	).Scan(&pref.UserID, &goal, &pref.CreatedAt, &pref.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPreferenceNotFound
		}
		return nil, err
	}

	pref.MonthlyGoal = pgNumericToDecimal(goal)
	return &pref, nil
}
