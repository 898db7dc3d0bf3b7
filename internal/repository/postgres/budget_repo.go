package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, category_id, amount, period, start_date, end_date,
	current_spent, is_active, created_at, updated_at`

// Create persists a new budget
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	spent, err := decimalToPgNumeric(budget.CurrentSpent)
	if err != nil {
		return nil, fmt.Errorf("invalid current spent: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO budgets (user_id, category_id, amount, period, start_date, end_date, current_spent, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+budgetColumns,
		budget.UserID, budget.CategoryID, amount, string(budget.Period),
		budget.StartDate, budget.EndDate, spent, budget.IsActive,
	)
	return scanBudget(row)
}

// GetByID retrieves a budget owned by the user
func (r *BudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetActiveByUser retrieves the user's active budgets
func (r *BudgetRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND is_active ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := make([]*domain.Budget, 0)
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return budgets, nil
}

// Update applies the non-nil fields of the update command
func (r *BudgetRepository) Update(ctx context.Context, userID uuid.UUID, id int32, update *domain.BudgetUpdate) (*domain.Budget, error) {
	query := `UPDATE budgets SET updated_at = NOW()`
	args := []interface{}{userID, id}

	if update.CategoryID != nil {
		args = append(args, *update.CategoryID)
		query += fmt.Sprintf(", category_id = $%d", len(args))
	}
	if update.Amount != nil {
		amount, err := decimalToPgNumeric(*update.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		args = append(args, amount)
		query += fmt.Sprintf(", amount = $%d", len(args))
	}
	if update.Period != nil {
		args = append(args, string(*update.Period))
		query += fmt.Sprintf(", period = $%d", len(args))
	}
	if update.StartDate != nil {
		args = append(args, *update.StartDate)
		query += fmt.Sprintf(", start_date = $%d", len(args))
	}
	if update.EndDate != nil {
		args = append(args, *update.EndDate)
		query += fmt.Sprintf(", end_date = $%d", len(args))
	}
	if update.IsActive != nil {
		args = append(args, *update.IsActive)
		query += fmt.Sprintf(", is_active = $%d", len(args))
	}

	query += ` WHERE user_id = $1 AND id = $2 RETURNING ` + budgetColumns

	budget, err := scanBudget(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// UpdateSpent overwrites the derived current_spent figure
func (r *BudgetRepository) UpdateSpent(ctx context.Context, userID uuid.UUID, id int32, spent decimal.Decimal) error {
	amount, err := decimalToPgNumeric(spent)
	if err != nil {
		return fmt.Errorf("invalid current spent: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE budgets SET current_spent = $3, updated_at = NOW() WHERE user_id = $1 AND id = $2`,
		userID, id, amount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

// SoftDelete deactivates a budget; the row is kept for history
func (r *BudgetRepository) SoftDelete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE budgets SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		budget domain.Budget
		amount pgtype.Numeric
		period string
		spent  pgtype.Numeric
	)

	err := row.Scan(
		&budget.ID,
		&budget.UserID,
		&budget.CategoryID,
		&amount,
		&period,
		&budget.StartDate,
		&budget.EndDate,
		&spent,
		&budget.IsActive,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	budget.Amount = pgNumericToDecimal(amount)
	budget.Period = domain.BudgetPeriod(period)
	budget.CurrentSpent = pgNumericToDecimal(spent)
	return &budget, nil
}
