package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, user_id, name, color, icon, parent_id, created_at, updated_at, deleted_at`

// GetByID retrieves a category owned by the user
func (r *CategoryRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+`
		FROM categories
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`,
		userID, id,
	)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetAllByUser retrieves the user's categories
func (r *CategoryRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+categoryColumns+`
		FROM categories
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	err := row.Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Color,
		&category.Icon,
		&category.ParentID,
		&category.CreatedAt,
		&category.UpdatedAt,
		&category.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
