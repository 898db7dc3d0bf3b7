package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/shopspring/decimal"
)

const (
	// TrailingWindowMonths is the trailing window for savings averages:
	// the current month plus the five preceding months.
	TrailingWindowMonths = 6

	// DefaultProjectionMonths is the default projection horizon
	DefaultProjectionMonths = 12
)

// SavingsService derives trailing savings facts and a forward linear
// projection from the configured monthly goal.
type SavingsService struct {
	transactionRepo domain.TransactionRepository
	preferenceRepo  domain.SavingsPreferenceRepository
	accountRepo     domain.AccountRepository
	defaultGoal     decimal.Decimal
}

// NewSavingsService creates a new SavingsService. defaultGoal is used for
// users without a savings preference.
func NewSavingsService(
	transactionRepo domain.TransactionRepository,
	preferenceRepo domain.SavingsPreferenceRepository,
	accountRepo domain.AccountRepository,
	defaultGoal decimal.Decimal,
) *SavingsService {
	return &SavingsService{
		transactionRepo: transactionRepo,
		preferenceRepo:  preferenceRepo,
		accountRepo:     accountRepo,
		defaultGoal:     defaultGoal,
	}
}

// SavingsForMonth computes income minus expenses for one calendar month
// directly over the ledger; no persisted summary is required.
func (s *SavingsService) SavingsForMonth(ctx context.Context, userID uuid.UUID, month time.Time) (decimal.Decimal, error) {
	start, end := util.MonthBoundaries(month.Year(), int(month.Month()))

	income, err := s.transactionRepo.SumByTypeAndDateRange(ctx, userID, start, end, domain.TransactionTypeCredit)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := s.transactionRepo.SumByTypeAndDateRange(ctx, userID, start, end, domain.TransactionTypeDebit)
	if err != nil {
		return decimal.Zero, err
	}

	return income.Sub(expenses), nil
}

// Summary returns the user's savings view over the 6-month trailing window.
// Months without transactions contribute zero, they are not excluded from
// the average.
func (s *SavingsService) Summary(ctx context.Context, userID uuid.UUID) (*domain.SavingsSummary, error) {
	goal, err := s.goal(ctx, userID)
	if err != nil {
		return nil, err
	}

	currentMonth := util.MonthStart(time.Now())

	total := decimal.Zero
	var currentMonthSavings decimal.Decimal
	for i := 0; i < TrailingWindowMonths; i++ {
		month := currentMonth.AddDate(0, -i, 0)
		savings, err := s.SavingsForMonth(ctx, userID, month)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			currentMonthSavings = savings
		}
		total = total.Add(savings)
	}

	average := total.Div(decimal.NewFromInt(TrailingWindowMonths))

	progress := decimal.Zero
	if goal.IsPositive() {
		progress = currentMonthSavings.Div(goal).Mul(decimal.NewFromInt(100))
	}

	return &domain.SavingsSummary{
		CurrentMonthSavings:   currentMonthSavings,
		Goal:                  goal,
		ProgressPercentage:    progress,
		AverageMonthlySavings: average,
		TotalSavings:          total,
		ProjectedAnnual:       average.Mul(decimal.NewFromInt(12)),
		OnTrack:               currentMonthSavings.GreaterThanOrEqual(goal),
		DeficitOrSurplus:      currentMonthSavings.Sub(goal),
	}, nil
}

// Projection returns the simple forward linear model: starting from the
// current total balance, every future month adds exactly the monthly goal.
func (s *SavingsService) Projection(ctx context.Context, userID uuid.UUID, months int) ([]*domain.SavingsProjectionPoint, error) {
	if months < domain.MinProjectionMonths || months > domain.MaxProjectionMonths {
		return nil, domain.ErrInvalidArgument
	}

	balance, err := s.accountRepo.SumBalanceByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	goal, err := s.goal(ctx, userID)
	if err != nil {
		return nil, err
	}

	currentMonth := util.MonthStart(time.Now())
	cumulative := balance

	points := make([]*domain.SavingsProjectionPoint, 0, months)
	for i := 1; i <= months; i++ {
		cumulative = cumulative.Add(goal)
		points = append(points, &domain.SavingsProjectionPoint{
			Month:             currentMonth.AddDate(0, i, 0),
			ProjectedSavings:  goal,
			CumulativeSavings: cumulative,
		})
	}
	return points, nil
}

func (s *SavingsService) goal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	pref, err := s.preferenceRepo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrPreferenceNotFound) {
			return s.defaultGoal, nil
		}
		return decimal.Zero, err
	}
	return pref.MonthlyGoal, nil
}
