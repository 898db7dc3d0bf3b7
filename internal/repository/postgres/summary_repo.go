package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise-backend/internal/domain"
)

// SummaryRepository implements domain.MonthlySummaryRepository using
// PostgreSQL. The unique index on (user_id, month_year) backs the
// one-row-per-month invariant.
type SummaryRepository struct {
	pool *pgxpool.Pool
}

// NewSummaryRepository creates a new SummaryRepository
func NewSummaryRepository(pool *pgxpool.Pool) *SummaryRepository {
	return &SummaryRepository{pool: pool}
}

const summaryColumns = `s.id, s.user_id, s.month_year, s.total_income, s.total_expenses,
	s.net_savings, s.top_expense_category_id, s.top_expense_amount, s.transaction_count,
	s.average_transaction_amount, s.savings_rate, s.is_final, s.created_at, s.updated_at`

// Upsert inserts the summary or updates the row for the same
// (user, month_year) key. is_final only ever moves from false to true.
func (r *SummaryRepository) Upsert(ctx context.Context, summary *domain.MonthlySummary) (*domain.MonthlySummary, error) {
	totalIncome, err := decimalToPgNumeric(summary.TotalIncome)
	if err != nil {
		return nil, fmt.Errorf("invalid total income: %w", err)
	}
	totalExpenses, err := decimalToPgNumeric(summary.TotalExpenses)
	if err != nil {
		return nil, fmt.Errorf("invalid total expenses: %w", err)
	}
	netSavings, err := decimalToPgNumeric(summary.NetSavings)
	if err != nil {
		return nil, fmt.Errorf("invalid net savings: %w", err)
	}
	topAmount, err := decimalToPgNumeric(summary.TopExpenseAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid top expense amount: %w", err)
	}
	average, err := decimalToPgNumeric(summary.AverageTransactionAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid average amount: %w", err)
	}
	savingsRate, err := decimalToPgNumeric(summary.SavingsRate)
	if err != nil {
		return nil, fmt.Errorf("invalid savings rate: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO monthly_summaries AS s
			(user_id, month_year, total_income, total_expenses, net_savings,
			top_expense_category_id, top_expense_amount, transaction_count,
			average_transaction_amount, savings_rate, is_final)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, month_year) DO UPDATE SET
			total_income = EXCLUDED.total_income,
			total_expenses = EXCLUDED.total_expenses,
			net_savings = EXCLUDED.net_savings,
			top_expense_category_id = EXCLUDED.top_expense_category_id,
			top_expense_amount = EXCLUDED.top_expense_amount,
			transaction_count = EXCLUDED.transaction_count,
			average_transaction_amount = EXCLUDED.average_transaction_amount,
			savings_rate = EXCLUDED.savings_rate,
			is_final = s.is_final OR EXCLUDED.is_final,
			updated_at = NOW()
		RETURNING `+summaryColumns,
		summary.UserID, summary.MonthYear, totalIncome, totalExpenses, netSavings,
		summary.TopExpenseCategoryID, topAmount, summary.TransactionCount,
		average, savingsRate, summary.IsFinal,
	)
	return scanSummary(row)
}

// GetByMonth retrieves the summary for one (user, month) pair
func (r *SummaryRepository) GetByMonth(ctx context.Context, userID uuid.UUID, monthYear time.Time) (*domain.MonthlySummary, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+summaryColumns+`
		FROM monthly_summaries s
		WHERE s.user_id = $1 AND s.month_year = $2`,
		userID, monthYear,
	)
	summary, err := scanSummary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, err
	}
	return summary, nil
}

// ListByUser retrieves the user's summaries ordered by month ascending,
// optionally restricted to one calendar year. The top expense category name
// is resolved in the same query.
func (r *SummaryRepository) ListByUser(ctx context.Context, userID uuid.UUID, year *int) ([]*domain.MonthlySummary, error) {
	query := `SELECT ` + summaryColumns + `, COALESCE(c.name, '')
		FROM monthly_summaries s
		LEFT JOIN categories c ON c.id = s.top_expense_category_id
		WHERE s.user_id = $1`
	args := []interface{}{userID}

	if year != nil {
		args = append(args, *year)
		query += fmt.Sprintf(" AND EXTRACT(YEAR FROM s.month_year) = $%d", len(args))
	}

	query += " ORDER BY s.month_year"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]*domain.MonthlySummary, 0)
	for rows.Next() {
		summary, err := scanSummaryWithCategory(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func scanSummary(row pgx.Row) (*domain.MonthlySummary, error) {
	var (
		summary       domain.MonthlySummary
		totalIncome   pgtype.Numeric
		totalExpenses pgtype.Numeric
		netSavings    pgtype.Numeric
		topAmount     pgtype.Numeric
		average       pgtype.Numeric
		savingsRate   pgtype.Numeric
	)

	err := row.Scan(
		&summary.ID,
		&summary.UserID,
		&summary.MonthYear,
		&totalIncome,
		&totalExpenses,
		&netSavings,
		&summary.TopExpenseCategoryID,
		&topAmount,
		&summary.TransactionCount,
		&average,
		&savingsRate,
		&summary.IsFinal,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	summary.TotalIncome = pgNumericToDecimal(totalIncome)
	summary.TotalExpenses = pgNumericToDecimal(totalExpenses)
	summary.NetSavings = pgNumericToDecimal(netSavings)
	summary.TopExpenseAmount = pgNumericToDecimal(topAmount)
	summary.AverageTransactionAmount = pgNumericToDecimal(average)
	summary.SavingsRate = pgNumericToDecimal(savingsRate)
	return &summary, nil
}

func scanSummaryWithCategory(row pgx.Row) (*domain.MonthlySummary, error) {
	var (
		summary       domain.MonthlySummary
		totalIncome   pgtype.Numeric
		totalExpenses pgtype.Numeric
		netSavings    pgtype.Numeric
		topAmount     pgtype.Numeric
		average       pgtype.Numeric
		savingsRate   pgtype.Numeric
	)

	err := row.Scan(
		&summary.ID,
		&summary.UserID,
		&summary.MonthYear,
		&totalIncome,
		&totalExpenses,
		&netSavings,
		&summary.TopExpenseCategoryID,
		&topAmount,
		&summary.TransactionCount,
		&average,
		&savingsRate,
		&summary.IsFinal,
		&summary.CreatedAt,
		&summary.UpdatedAt,
		&summary.TopExpenseCategoryName,
	)
	if err != nil {
		return nil, err
	}

	summary.TotalIncome = pgNumericToDecimal(totalIncome)
	summary.TotalExpenses = pgNumericToDecimal(totalExpenses)
	summary.NetSavings = pgNumericToDecimal(netSavings)
	summary.TopExpenseAmount = pgNumericToDecimal(topAmount)
	summary.AverageTransactionAmount = pgNumericToDecimal(average)
	summary.SavingsRate = pgNumericToDecimal(savingsRate)
	return &summary, nil
}
