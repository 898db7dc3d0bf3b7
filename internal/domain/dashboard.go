package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategorySpending is one row of the category breakdown over a window.
// Percentage is the share of the window's total debit spend (0 when the
// window has no debits).
type CategorySpending struct {
	CategoryID   *int32          `json:"categoryId,omitempty"`
	CategoryName string          `json:"categoryName"`
	Color        string          `json:"color,omitempty"`
	Icon         string          `json:"icon,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Count        int             `json:"count"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// DashboardSummary composes the aggregation components into one read view.
// Any sub-result may legitimately be empty or zero.
type DashboardSummary struct {
	TotalBalance           decimal.Decimal     `json:"totalBalance"`
	MonthlyIncome          decimal.Decimal     `json:"monthlyIncome"`
	MonthlyExpenses        decimal.Decimal     `json:"monthlyExpenses"`
	MonthlySavings         decimal.Decimal     `json:"monthlySavings"`
	SavingsRate            decimal.Decimal     `json:"savingsRate"`
	TotalTransactionCount  int64               `json:"totalTransactionCount"`
	UnreadAlertCount       int64               `json:"unreadAlertCount"`
	ActiveGoalCount        int64               `json:"activeGoalCount"`
	PendingSuggestionCount int64               `json:"pendingSuggestionCount"`
	TopExpenseCategories   []*CategorySpending `json:"topExpenseCategories"`
	RecentTransactions     []*Transaction      `json:"recentTransactions"`
	BudgetOverview         *BudgetOverview     `json:"budgetOverview"`
}

// EngagementRepository supplies the dashboard counters owned by collaborator
// subsystems (alerting, goals, suggestions).
type EngagementRepository interface {
	CountUnreadAlerts(ctx context.Context, userID uuid.UUID) (int64, error)
	CountActiveGoals(ctx context.Context, userID uuid.UUID) (int64, error)
	CountPendingSuggestions(ctx context.Context, userID uuid.UUID) (int64, error)
}
