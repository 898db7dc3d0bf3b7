package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetPeriod string

const (
	BudgetPeriodWeekly    BudgetPeriod = "WEEKLY"
	BudgetPeriodMonthly   BudgetPeriod = "MONTHLY"
	BudgetPeriodQuarterly BudgetPeriod = "QUARTERLY"
	BudgetPeriodYearly    BudgetPeriod = "YEARLY"
)

// Budget bounds spending for one category over a period window.
// CurrentSpent is derived state: it is recomputed from the ledger on read,
// never incrementally maintained.
type Budget struct {
	ID           int32           `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	CategoryID   int32           `json:"categoryId"`
	Amount       decimal.Decimal `json:"amount"`
	Period       BudgetPeriod    `json:"period"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	CurrentSpent decimal.Decimal `json:"currentSpent"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// BudgetUpdate is a partial-update command: only non-nil fields are applied.
type BudgetUpdate struct {
	CategoryID *int32
	Amount     *decimal.Decimal
	Period     *BudgetPeriod
	StartDate  *time.Time
	EndDate    *time.Time
	IsActive   *bool
}

// UtilizationView holds the derived utilization facts for one budget.
// UtilizationPercentage is not capped at 100; over-budget values exceed it.
type UtilizationView struct {
	BudgetID              int32           `json:"budgetId"`
	CategoryID            int32           `json:"categoryId"`
	Amount                decimal.Decimal `json:"amount"`
	CurrentSpent          decimal.Decimal `json:"currentSpent"`
	Remaining             decimal.Decimal `json:"remaining"`
	UtilizationPercentage decimal.Decimal `json:"utilizationPercentage"`
	IsOverBudget          bool            `json:"isOverBudget"`
}

// BudgetOverview aggregates utilization across the budgets active in a window.
type BudgetOverview struct {
	TotalBudgets       int             `json:"totalBudgets"`
	BudgetsOnTrack     int             `json:"budgetsOnTrack"`
	BudgetsExceeded    int             `json:"budgetsExceeded"`
	TotalBudgetAmount  decimal.Decimal `json:"totalBudgetAmount"`
	TotalSpent         decimal.Decimal `json:"totalSpent"`
	OverallUtilization decimal.Decimal `json:"overallUtilization"`
}

type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Budget, error)
	GetActiveByUser(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	Update(ctx context.Context, userID uuid.UUID, id int32, update *BudgetUpdate) (*Budget, error)
	UpdateSpent(ctx context.Context, userID uuid.UUID, id int32, spent decimal.Decimal) error
	SoftDelete(ctx context.Context, userID uuid.UUID, id int32) error
}
