package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/event"
	"github.com/pennywise/pennywise-backend/internal/testutil"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBudgetServiceForTest() (*BudgetService, *testutil.MockBudgetRepository, *testutil.MockCategoryRepository, *testutil.MockTransactionRepository) {
	budgetRepo := testutil.NewMockBudgetRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewBudgetService(budgetRepo, categoryRepo, transactionRepo, util.NewKeyLock(), &event.NoOpPublisher{})
	return svc, budgetRepo, categoryRepo, transactionRepo
}

func addMonthlyBudget(budgetRepo *testutil.MockBudgetRepository, userID uuid.UUID, categoryID int32, amount int64) *domain.Budget {
	budget := &domain.Budget{
		UserID:       userID,
		CategoryID:   categoryID,
		Amount:       decimal.NewFromInt(amount),
		Period:       domain.BudgetPeriodMonthly,
		StartDate:    date(2025, time.January, 1),
		EndDate:      date(2025, time.January, 31),
		CurrentSpent: decimal.Zero,
		IsActive:     true,
	}
	budgetRepo.AddBudget(budget)
	return budget
}

func TestCreateBudget(t *testing.T) {
	svc, _, categoryRepo, _ := newBudgetServiceForTest()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Groceries"})

	created, err := svc.Create(context.Background(), &domain.Budget{
		UserID:     userID,
		CategoryID: 1,
		Amount:     decimal.NewFromInt(500),
		Period:     domain.BudgetPeriodMonthly,
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	assert.True(t, created.CurrentSpent.IsZero())

	// Window resolved from the period kind around now
	wantStart, wantEnd := util.MonthBoundaries(time.Now().Year(), int(time.Now().Month()))
	assert.True(t, created.StartDate.Equal(wantStart))
	assert.True(t, created.EndDate.Equal(wantEnd))
}

func TestCreateBudgetRejectsNegativeAmount(t *testing.T) {
	svc, _, categoryRepo, _ := newBudgetServiceForTest()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Groceries"})

	_, err := svc.Create(context.Background(), &domain.Budget{
		UserID:     userID,
		CategoryID: 1,
		Amount:     decimal.NewFromInt(-10),
		Period:     domain.BudgetPeriodMonthly,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestCreateBudgetRejectsUnknownCategory(t *testing.T) {
	svc, _, _, _ := newBudgetServiceForTest()

	_, err := svc.Create(context.Background(), &domain.Budget{
		UserID:     uuid.New(),
		CategoryID: 99,
		Amount:     decimal.NewFromInt(500),
		Period:     domain.BudgetPeriodMonthly,
	})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestCreateBudgetRejectsInvertedWindow(t *testing.T) {
	svc, _, categoryRepo, _ := newBudgetServiceForTest()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Groceries"})

	_, err := svc.Create(context.Background(), &domain.Budget{
		UserID:     userID,
		CategoryID: 1,
		Amount:     decimal.NewFromInt(500),
		Period:     domain.BudgetPeriodMonthly,
		StartDate:  date(2025, time.March, 31),
		EndDate:    date(2025, time.March, 1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestRecomputeSpent(t *testing.T) {
	svc, budgetRepo, _, transactionRepo := newBudgetServiceForTest()
	userID := uuid.New()

	budget := addMonthlyBudget(budgetRepo, userID, 1, 1000)

	// Two debits in the window and category, one credit, one debit outside
	// the category, one debit outside the window
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(1),
		Amount: decimal.NewFromInt(700), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.January, 5),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(1),
		Amount: decimal.NewFromInt(500), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.January, 20),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(1),
		Amount: decimal.NewFromInt(900), Type: domain.TransactionTypeCredit,
		TransactionDate: date(2025, time.January, 10),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(2),
		Amount: decimal.NewFromInt(80), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.January, 11),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(1),
		Amount: decimal.NewFromInt(60), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.February, 2),
	})

	recomputed, err := svc.RecomputeSpent(context.Background(), userID, budget.ID)
	require.NoError(t, err)
	assert.True(t, recomputed.CurrentSpent.Equal(decimal.NewFromInt(1200)))

	// Recomputing again from an unchanged ledger lands on the same figure
	recomputed, err = svc.RecomputeSpent(context.Background(), userID, budget.ID)
	require.NoError(t, err)
	assert.True(t, recomputed.CurrentSpent.Equal(decimal.NewFromInt(1200)))
}

func TestRecomputeSpentUnknownBudget(t *testing.T) {
	svc, _, _, _ := newBudgetServiceForTest()

	_, err := svc.RecomputeSpent(context.Background(), uuid.New(), 42)
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
}

func TestGetUtilizationOverBudget(t *testing.T) {
	svc, budgetRepo, _, transactionRepo := newBudgetServiceForTest()
	userID := uuid.New()

	budget := addMonthlyBudget(budgetRepo, userID, 1, 1000)

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(1),
		Amount: decimal.NewFromInt(1200), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.January, 8),
	})

	view, err := svc.GetUtilization(context.Background(), userID, budget.ID)
	require.NoError(t, err)

	assert.True(t, view.CurrentSpent.Equal(decimal.NewFromInt(1200)))
	assert.True(t, view.Remaining.Equal(decimal.NewFromInt(-200)))
	assert.True(t, view.UtilizationPercentage.Equal(decimal.NewFromInt(120)))
	assert.True(t, view.IsOverBudget)
}

func TestUtilizationZeroAmountBudget(t *testing.T) {
	svc, _, _, _ := newBudgetServiceForTest()

	view := svc.Utilization(&domain.Budget{
		ID:           1,
		Amount:       decimal.Zero,
		CurrentSpent: decimal.NewFromInt(50),
	})

	assert.True(t, view.UtilizationPercentage.IsZero())
	assert.True(t, view.IsOverBudget)
}

func TestUpdateBudgetPartial(t *testing.T) {
	svc, budgetRepo, categoryRepo, _ := newBudgetServiceForTest()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Groceries"})
	budget := addMonthlyBudget(budgetRepo, userID, 1, 1000)

	newAmount := decimal.NewFromInt(1500)
	updated, err := svc.Update(context.Background(), userID, budget.ID, &domain.BudgetUpdate{
		Amount: &newAmount,
	})
	require.NoError(t, err)

	assert.True(t, updated.Amount.Equal(newAmount))
	// Untouched fields survive
	assert.Equal(t, int32(1), updated.CategoryID)
	assert.True(t, updated.StartDate.Equal(date(2025, time.January, 1)))
}

func TestUpdateBudgetRejectsInvertedWindow(t *testing.T) {
	svc, budgetRepo, _, _ := newBudgetServiceForTest()
	userID := uuid.New()

	budget := addMonthlyBudget(budgetRepo, userID, 1, 1000)

	badStart := date(2025, time.February, 15)
	_, err := svc.Update(context.Background(), userID, budget.ID, &domain.BudgetUpdate{
		StartDate: &badStart,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestUpdateBudgetPeriodChangeReanchorsWindow(t *testing.T) {
	svc, budgetRepo, _, _ := newBudgetServiceForTest()
	userID := uuid.New()

	budget := addMonthlyBudget(budgetRepo, userID, 1, 1000)

	yearly := domain.BudgetPeriodYearly
	updated, err := svc.Update(context.Background(), userID, budget.ID, &domain.BudgetUpdate{
		Period: &yearly,
	})
	require.NoError(t, err)

	wantStart, wantEnd, err := util.ResolvePeriod(domain.BudgetPeriodYearly, time.Now())
	require.NoError(t, err)
	assert.True(t, updated.StartDate.Equal(wantStart))
	assert.True(t, updated.EndDate.Equal(wantEnd))
}

func TestDeleteBudgetIsSoft(t *testing.T) {
	svc, budgetRepo, _, _ := newBudgetServiceForTest()
	userID := uuid.New()

	budget := addMonthlyBudget(budgetRepo, userID, 1, 1000)

	err := svc.Delete(context.Background(), userID, budget.ID)
	require.NoError(t, err)

	active, err := budgetRepo.GetActiveByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, active)

	// Row still exists, just deactivated
	stored, err := budgetRepo.GetByID(context.Background(), userID, budget.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestDeleteBudgetWrongUser(t *testing.T) {
	svc, budgetRepo, _, _ := newBudgetServiceForTest()

	budget := addMonthlyBudget(budgetRepo, uuid.New(), 1, 1000)

	err := svc.Delete(context.Background(), uuid.New(), budget.ID)
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
}

func TestBudgetOverview(t *testing.T) {
	svc, budgetRepo, _, transactionRepo := newBudgetServiceForTest()
	userID := uuid.New()

	onTrack := addMonthlyBudget(budgetRepo, userID, 1, 1000)
	exceeded := addMonthlyBudget(budgetRepo, userID, 2, 100)

	// Outside the requested window, must not be counted
	stale := addMonthlyBudget(budgetRepo, userID, 3, 400)
	stale.StartDate = date(2024, time.June, 1)
	stale.EndDate = date(2024, time.June, 30)

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(onTrack.CategoryID),
		Amount: decimal.NewFromInt(250), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.January, 6),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(exceeded.CategoryID),
		Amount: decimal.NewFromInt(150), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.January, 7),
	})

	overview, err := svc.Overview(context.Background(), userID, date(2025, time.January, 1), date(2025, time.January, 31))
	require.NoError(t, err)

	assert.Equal(t, 2, overview.TotalBudgets)
	assert.Equal(t, 1, overview.BudgetsOnTrack)
	assert.Equal(t, 1, overview.BudgetsExceeded)
	assert.True(t, overview.TotalBudgetAmount.Equal(decimal.NewFromInt(1100)))
	assert.True(t, overview.TotalSpent.Equal(decimal.NewFromInt(400)))

	wantUtilization := decimal.NewFromInt(400).Div(decimal.NewFromInt(1100)).Mul(decimal.NewFromInt(100))
	assert.True(t, overview.OverallUtilization.Equal(wantUtilization))
}

func TestBudgetOverviewNoBudgets(t *testing.T) {
	svc, _, _, _ := newBudgetServiceForTest()

	overview, err := svc.Overview(context.Background(), uuid.New(), date(2025, time.January, 1), date(2025, time.January, 31))
	require.NoError(t, err)

	assert.Equal(t, 0, overview.TotalBudgets)
	assert.True(t, overview.OverallUtilization.IsZero())
}
