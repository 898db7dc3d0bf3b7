package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsPreference holds the per-user monthly savings goal.
type SavingsPreference struct {
	UserID      uuid.UUID       `json:"userId"`
	MonthlyGoal decimal.Decimal `json:"monthlyGoal"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SavingsSummary is the derived savings view for a user. The trailing window
// is the current month plus the five preceding months; months without
// transactions count as zero.
type SavingsSummary struct {
	CurrentMonthSavings   decimal.Decimal `json:"currentMonthSavings"`
	Goal                  decimal.Decimal `json:"goal"`
	ProgressPercentage    decimal.Decimal `json:"progressPercentage"`
	AverageMonthlySavings decimal.Decimal `json:"averageMonthlySavings"`
	TotalSavings          decimal.Decimal `json:"totalSavings"`
	ProjectedAnnual       decimal.Decimal `json:"projectedAnnual"`
	OnTrack               bool            `json:"onTrack"`
	DeficitOrSurplus      decimal.Decimal `json:"deficitOrSurplus"`
}

// SavingsProjectionPoint is one future month in the linear projection:
// each month adds exactly the monthly goal on top of the running balance.
type SavingsProjectionPoint struct {
	Month             time.Time       `json:"month"`
	ProjectedSavings  decimal.Decimal `json:"projectedSavings"`
	CumulativeSavings decimal.Decimal `json:"cumulativeSavings"`
}

type SavingsPreferenceRepository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*SavingsPreference, error)
}
