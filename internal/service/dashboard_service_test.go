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

type dashboardFixture struct {
	svc             *DashboardService
	transactionRepo *testutil.MockTransactionRepository
	accountRepo     *testutil.MockAccountRepository
	engagementRepo  *testutil.MockEngagementRepository
	budgetRepo      *testutil.MockBudgetRepository
	categoryRepo    *testutil.MockCategoryRepository
}

func newDashboardFixture() *dashboardFixture {
	transactionRepo := testutil.NewMockTransactionRepository()
	accountRepo := testutil.NewMockAccountRepository()
	engagementRepo := testutil.NewMockEngagementRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	categoryRepo := testutil.NewMockCategoryRepository()

	locks := util.NewKeyLock()
	publisher := &event.NoOpPublisher{}

	budgetService := NewBudgetService(budgetRepo, categoryRepo, transactionRepo, locks, publisher)
	spendingService := NewSpendingService(transactionRepo, categoryRepo)

	return &dashboardFixture{
		svc:             NewDashboardService(transactionRepo, accountRepo, engagementRepo, budgetService, spendingService),
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		engagementRepo:  engagementRepo,
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
	}
}

func TestDashboardSummaryEmptyUser(t *testing.T) {
	f := newDashboardFixture()

	summary, err := f.svc.GetSummary(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.True(t, summary.TotalBalance.IsZero())
	assert.True(t, summary.MonthlyIncome.IsZero())
	assert.True(t, summary.MonthlyExpenses.IsZero())
	assert.True(t, summary.MonthlySavings.IsZero())
	assert.True(t, summary.SavingsRate.IsZero())
	assert.Zero(t, summary.TotalTransactionCount)
	assert.Empty(t, summary.TopExpenseCategories)
	assert.Empty(t, summary.RecentTransactions)
	require.NotNil(t, summary.BudgetOverview)
	assert.Equal(t, 0, summary.BudgetOverview.TotalBudgets)
}

func TestDashboardSummary(t *testing.T) {
	f := newDashboardFixture()
	userID := uuid.New()

	f.accountRepo.AddAccount(&domain.Account{UserID: userID, Balance: decimal.NewFromInt(2500)})
	f.accountRepo.AddAccount(&domain.Account{UserID: userID, Balance: decimal.NewFromInt(500)})

	f.engagementRepo.UnreadAlerts[userID] = 2
	f.engagementRepo.ActiveGoals[userID] = 1
	f.engagementRepo.PendingSuggestions[userID] = 3

	f.categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Food"})

	now := time.Now()
	monthStart, monthEnd := util.MonthBoundaries(now.Year(), int(now.Month()))

	f.transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID,
		Amount: decimal.NewFromInt(4000), Type: domain.TransactionTypeCredit,
		TransactionDate: monthStart,
	})
	f.transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(1),
		Amount: decimal.NewFromInt(1000), Type: domain.TransactionTypeDebit,
		TransactionDate: monthStart,
	})

	budget := &domain.Budget{
		UserID:     userID,
		CategoryID: 1,
		Amount:     decimal.NewFromInt(1500),
		Period:     domain.BudgetPeriodMonthly,
		StartDate:  monthStart,
		EndDate:    monthEnd,
		IsActive:   true,
	}
	f.budgetRepo.AddBudget(budget)

	summary, err := f.svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)

	assert.True(t, summary.TotalBalance.Equal(decimal.NewFromInt(3000)))
	assert.True(t, summary.MonthlyIncome.Equal(decimal.NewFromInt(4000)))
	assert.True(t, summary.MonthlyExpenses.Equal(decimal.NewFromInt(1000)))
	assert.True(t, summary.MonthlySavings.Equal(decimal.NewFromInt(3000)))
	assert.True(t, summary.SavingsRate.Equal(decimal.NewFromInt(75)))

	assert.Equal(t, int64(2), summary.TotalTransactionCount)
	assert.Equal(t, int64(2), summary.UnreadAlertCount)
	assert.Equal(t, int64(1), summary.ActiveGoalCount)
	assert.Equal(t, int64(3), summary.PendingSuggestionCount)

	require.Len(t, summary.TopExpenseCategories, 1)
	assert.Equal(t, "Food", summary.TopExpenseCategories[0].CategoryName)
	assert.True(t, summary.TopExpenseCategories[0].Amount.Equal(decimal.NewFromInt(1000)))

	assert.Len(t, summary.RecentTransactions, 2)

	require.NotNil(t, summary.BudgetOverview)
	assert.Equal(t, 1, summary.BudgetOverview.TotalBudgets)
	assert.True(t, summary.BudgetOverview.TotalSpent.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, summary.BudgetOverview.BudgetsOnTrack)
}

func TestDashboardSummaryTruncatesTopCategories(t *testing.T) {
	f := newDashboardFixture()
	userID := uuid.New()

	now := time.Now()
	monthStart, _ := util.MonthBoundaries(now.Year(), int(now.Month()))

	for i := int32(1); i <= 8; i++ {
		f.categoryRepo.AddCategory(&domain.Category{ID: i, UserID: userID, Name: "Category"})
		categoryID := i
		f.transactionRepo.AddTransaction(&domain.Transaction{
			UserID: userID, CategoryID: &categoryID,
			Amount: decimal.NewFromInt(int64(i * 10)), Type: domain.TransactionTypeDebit,
			TransactionDate: monthStart,
		})
	}

	summary, err := f.svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, summary.TopExpenseCategories, DashboardTopCategories)
	// Largest spenders kept, ordered descending
	assert.True(t, summary.TopExpenseCategories[0].Amount.Equal(decimal.NewFromInt(80)))
	assert.True(t, summary.TopExpenseCategories[4].Amount.Equal(decimal.NewFromInt(40)))
}

func TestDashboardSummaryLimitsRecentTransactions(t *testing.T) {
	f := newDashboardFixture()
	userID := uuid.New()

	now := time.Now()
	monthStart, _ := util.MonthBoundaries(now.Year(), int(now.Month()))

	for i := 0; i < 15; i++ {
		f.transactionRepo.AddTransaction(&domain.Transaction{
			UserID: userID,
			Amount: decimal.NewFromInt(5), Type: domain.TransactionTypeDebit,
			TransactionDate: monthStart,
		})
	}

	summary, err := f.svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, summary.RecentTransactions, DashboardRecentTransactions)
}
