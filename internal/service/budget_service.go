package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/event"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/shopspring/decimal"
)

// BudgetService tracks per-category budgets: it owns the derived
// CurrentSpent figure and the utilization facts computed from it.
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	categoryRepo    domain.CategoryRepository
	transactionRepo domain.TransactionRepository
	locks           *util.KeyLock
	publisher       event.Publisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo domain.BudgetRepository,
	categoryRepo domain.CategoryRepository,
	transactionRepo domain.TransactionRepository,
	locks *util.KeyLock,
	publisher event.Publisher,
) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		locks:           locks,
		publisher:       publisher,
	}
}

func budgetKey(userID uuid.UUID, budgetID int32) string {
	return fmt.Sprintf("budget:%s:%d", userID, budgetID)
}

// Create validates and persists a new budget. When the caller supplies no
// window, the period kind resolves one around now; a caller-supplied window
// with start after end is rejected.
func (s *BudgetService) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if budget.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	// Category must exist and belong to the user
	if _, err := s.categoryRepo.GetByID(ctx, budget.UserID, budget.CategoryID); err != nil {
		return nil, err
	}

	if budget.StartDate.IsZero() && budget.EndDate.IsZero() {
		start, end, err := util.ResolvePeriod(budget.Period, time.Now())
		if err != nil {
			return nil, err
		}
		budget.StartDate = start
		budget.EndDate = end
	} else if _, _, err := util.ResolvePeriod(budget.Period, time.Now()); err != nil {
		return nil, err
	}

	if budget.StartDate.After(budget.EndDate) {
		return nil, domain.ErrInvalidPeriod
	}

	budget.CurrentSpent = decimal.Zero
	budget.IsActive = true

	return s.budgetRepo.Create(ctx, budget)
}

// Update applies a partial update, leaving absent fields untouched.
// The window invariant is revalidated against the merged result.
func (s *BudgetService) Update(ctx context.Context, userID uuid.UUID, id int32, update *domain.BudgetUpdate) (*domain.Budget, error) {
	existing, err := s.budgetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if update.Amount != nil && update.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if update.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, userID, *update.CategoryID); err != nil {
			return nil, err
		}
	}

	start := existing.StartDate
	end := existing.EndDate
	if update.StartDate != nil {
		start = *update.StartDate
	}
	if update.EndDate != nil {
		end = *update.EndDate
	}
	if start.After(end) {
		return nil, domain.ErrInvalidPeriod
	}

	// Changing the period kind without an explicit window re-anchors the
	// window around now.
	if update.Period != nil && update.StartDate == nil && update.EndDate == nil {
		newStart, newEnd, err := util.ResolvePeriod(*update.Period, time.Now())
		if err != nil {
			return nil, err
		}
		update.StartDate = &newStart
		update.EndDate = &newEnd
	}

	return s.budgetRepo.Update(ctx, userID, id, update)
}

// Delete deactivates a budget. Inactive budgets are filtered at query
// boundaries, not removed.
func (s *BudgetService) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	if _, err := s.budgetRepo.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return s.budgetRepo.SoftDelete(ctx, userID, id)
}

// RecomputeSpent recalculates CurrentSpent from scratch: the sum of every
// debit in the budget's category inside its window. The recompute is
// idempotent and serialized per budget; nothing is written when the ledger
// read fails.
func (s *BudgetService) RecomputeSpent(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	budget, err := s.budgetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(budgetKey(userID, id))
	defer unlock()

	debit := domain.TransactionTypeDebit
	transactions, err := s.transactionRepo.Query(ctx, userID, &domain.TransactionFilter{
		StartDate:  &budget.StartDate,
		EndDate:    &budget.EndDate,
		CategoryID: &budget.CategoryID,
		Type:       &debit,
	})
	if err != nil {
		return nil, err
	}

	spent := decimal.Zero
	for _, tx := range transactions {
		spent = spent.Add(tx.Amount)
	}

	if err := s.budgetRepo.UpdateSpent(ctx, userID, id, spent); err != nil {
		return nil, err
	}
	budget.CurrentSpent = spent

	s.publisher.Publish(userID, event.BudgetUpdated(budget))

	return budget, nil
}

// Utilization derives the utilization facts from a budget's current state.
// A zero budget amount yields 0%, never a division error; over-budget
// percentages exceed 100.
func (s *BudgetService) Utilization(budget *domain.Budget) *domain.UtilizationView {
	remaining := budget.Amount.Sub(budget.CurrentSpent)

	percentage := decimal.Zero
	if budget.Amount.IsPositive() {
		percentage = budget.CurrentSpent.Div(budget.Amount).Mul(decimal.NewFromInt(100))
	}

	return &domain.UtilizationView{
		BudgetID:              budget.ID,
		CategoryID:            budget.CategoryID,
		Amount:                budget.Amount,
		CurrentSpent:          budget.CurrentSpent,
		Remaining:             remaining,
		UtilizationPercentage: percentage,
		IsOverBudget:          budget.CurrentSpent.GreaterThan(budget.Amount),
	}
}

// GetUtilization recomputes spent and returns the utilization view
func (s *BudgetService) GetUtilization(ctx context.Context, userID uuid.UUID, id int32) (*domain.UtilizationView, error) {
	budget, err := s.RecomputeSpent(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.Utilization(budget), nil
}

// Overview aggregates the user's active budgets whose window overlaps
// [start, end], recomputing each before aggregation.
func (s *BudgetService) Overview(ctx context.Context, userID uuid.UUID, start, end time.Time) (*domain.BudgetOverview, error) {
	budgets, err := s.budgetRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &domain.BudgetOverview{
		TotalBudgetAmount:  decimal.Zero,
		TotalSpent:         decimal.Zero,
		OverallUtilization: decimal.Zero,
	}

	for _, b := range budgets {
		if b.EndDate.Before(start) || b.StartDate.After(end) {
			continue
		}

		recomputed, err := s.RecomputeSpent(ctx, userID, b.ID)
		if err != nil {
			return nil, err
		}

		overview.TotalBudgets++
		overview.TotalBudgetAmount = overview.TotalBudgetAmount.Add(recomputed.Amount)
		overview.TotalSpent = overview.TotalSpent.Add(recomputed.CurrentSpent)
		if recomputed.CurrentSpent.GreaterThan(recomputed.Amount) {
			overview.BudgetsExceeded++
		} else {
			overview.BudgetsOnTrack++
		}
	}

	if overview.TotalBudgetAmount.IsPositive() {
		overview.OverallUtilization = overview.TotalSpent.
			Div(overview.TotalBudgetAmount).
			Mul(decimal.NewFromInt(100))
	}

	return overview, nil
}
