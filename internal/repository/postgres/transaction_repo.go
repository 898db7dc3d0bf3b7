package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, account_id, category_id, merchant_id, description,
	amount, type, transaction_date, posted_date, is_recurring, recurring_frequency,
	manually_categorized, created_at, updated_at`

// Query retrieves the user's transactions matching the filter, ordered by
// transaction date then id so repeated reads are deterministic
func (r *TransactionRepository) Query(ctx context.Context, userID uuid.UUID, filter *domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND deleted_at IS NULL`
	args := []interface{}{userID}

	if filter != nil {
		if filter.StartDate != nil {
			args = append(args, *filter.StartDate)
			query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
		}
		if filter.EndDate != nil {
			args = append(args, *filter.EndDate)
			query += fmt.Sprintf(" AND transaction_date <= $%d", len(args))
		}
		if filter.CategoryID != nil {
			args = append(args, *filter.CategoryID)
			query += fmt.Sprintf(" AND category_id = $%d", len(args))
		}
		if filter.Type != nil {
			args = append(args, string(*filter.Type))
			query += fmt.Sprintf(" AND type = $%d", len(args))
		}
	}

	query += " ORDER BY transaction_date, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetRecent retrieves the user's newest transactions
func (r *TransactionRepository) GetRecent(ctx context.Context, userID uuid.UUID, limit int32) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY transaction_date DESC, id DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// CountByUser returns the user's total transaction count
func (r *TransactionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND deleted_at IS NULL`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SumByTypeAndDateRange sums transaction amounts of one type inside an
// inclusive date range
func (r *TransactionRepository) SumByTypeAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time, txType domain.TransactionType) (decimal.Decimal, error) {
	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND deleted_at IS NULL
			AND transaction_date >= $2 AND transaction_date <= $3
			AND type = $4`,
		userID, start, end, string(txType),
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		tx         domain.Transaction
		amount     pgtype.Numeric
		txType     string
		postedDate pgtype.Date
		frequency  pgtype.Text
	)

	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.AccountID,
		&tx.CategoryID,
		&tx.MerchantID,
		&tx.Description,
		&amount,
		&txType,
		&tx.TransactionDate,
		&postedDate,
		&tx.IsRecurring,
		&frequency,
		&tx.ManuallyCategorized,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Amount = pgNumericToDecimal(amount)
	tx.Type = domain.TransactionType(txType)
	if postedDate.Valid {
		tx.PostedDate = &postedDate.Time
	}
	if frequency.Valid {
		f := domain.RecurringFrequency(frequency.String)
		tx.RecurringFrequency = &f
	}
	return &tx, nil
}
