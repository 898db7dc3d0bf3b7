package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlySummary is one idempotent, upsertable record per (user, month).
// MonthYear is always normalized to the first day of the month; the pair
// (UserID, MonthYear) is a uniqueness invariant enforced by the store.
//
// IsFinal transitions false -> true once the month has ended and never
// reverts.
type MonthlySummary struct {
	ID                       int32           `json:"id"`
	UserID                   uuid.UUID       `json:"userId"`
	MonthYear                time.Time       `json:"monthYear"`
	TotalIncome              decimal.Decimal `json:"totalIncome"`
	TotalExpenses            decimal.Decimal `json:"totalExpenses"`
	NetSavings               decimal.Decimal `json:"netSavings"`
	TopExpenseCategoryID     *int32          `json:"topExpenseCategoryId,omitempty"`
	TopExpenseCategoryName   string          `json:"topExpenseCategoryName,omitempty"`
	TopExpenseAmount         decimal.Decimal `json:"topExpenseAmount"`
	TransactionCount         int             `json:"transactionCount"`
	AverageTransactionAmount decimal.Decimal `json:"averageTransactionAmount"`
	SavingsRate              decimal.Decimal `json:"savingsRate"`
	IsFinal                  bool            `json:"isFinal"`
	CreatedAt                time.Time       `json:"createdAt"`
	UpdatedAt                time.Time       `json:"updatedAt"`
}

type MonthlySummaryRepository interface {
	// Upsert inserts the summary or updates the existing row for the same
	// (user, monthYear) key. It must never create a duplicate row.
	Upsert(ctx context.Context, summary *MonthlySummary) (*MonthlySummary, error)
	GetByMonth(ctx context.Context, userID uuid.UUID, monthYear time.Time) (*MonthlySummary, error)
	// ListByUser returns summaries ordered by month ascending, optionally
	// restricted to one calendar year.
	ListByUser(ctx context.Context, userID uuid.UUID, year *int) ([]*MonthlySummary, error)
}
