package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/shopspring/decimal"
)

const (
	// DashboardTopCategories is how many expense categories the dashboard shows
	DashboardTopCategories = 5

	// DashboardRecentTransactions is how many recent transactions the dashboard shows
	DashboardRecentTransactions = 10
)

// DashboardService composes the aggregation components into a single read
// view. It has no algorithm of its own beyond composition and tolerates any
// sub-component returning an empty result.
type DashboardService struct {
	transactionRepo domain.TransactionRepository
	accountRepo     domain.AccountRepository
	engagementRepo  domain.EngagementRepository
	budgetService   *BudgetService
	spendingService *SpendingService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	transactionRepo domain.TransactionRepository,
	accountRepo domain.AccountRepository,
	engagementRepo domain.EngagementRepository,
	budgetService *BudgetService,
	spendingService *SpendingService,
) *DashboardService {
	return &DashboardService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		engagementRepo:  engagementRepo,
		budgetService:   budgetService,
		spendingService: spendingService,
	}
}

// GetSummary assembles the dashboard for the current calendar month
func (s *DashboardService) GetSummary(ctx context.Context, userID uuid.UUID) (*domain.DashboardSummary, error) {
	now := time.Now()
	start, end := util.MonthBoundaries(now.Year(), int(now.Month()))

	totalBalance, err := s.accountRepo.SumBalanceByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	income, err := s.transactionRepo.SumByTypeAndDateRange(ctx, userID, start, end, domain.TransactionTypeCredit)
	if err != nil {
		return nil, err
	}
	expenses, err := s.transactionRepo.SumByTypeAndDateRange(ctx, userID, start, end, domain.TransactionTypeDebit)
	if err != nil {
		return nil, err
	}
	savings := income.Sub(expenses)

	savingsRate := decimal.Zero
	if income.IsPositive() {
		savingsRate = savings.Div(income).Mul(decimal.NewFromInt(100))
	}

	transactionCount, err := s.transactionRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unreadAlerts, err := s.engagementRepo.CountUnreadAlerts(ctx, userID)
	if err != nil {
		return nil, err
	}
	activeGoals, err := s.engagementRepo.CountActiveGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	pendingSuggestions, err := s.engagementRepo.CountPendingSuggestions(ctx, userID)
	if err != nil {
		return nil, err
	}

	topCategories, err := s.spendingService.SpendingByCategory(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(topCategories) > DashboardTopCategories {
		topCategories = topCategories[:DashboardTopCategories]
	}

	recent, err := s.transactionRepo.GetRecent(ctx, userID, DashboardRecentTransactions)
	if err != nil {
		return nil, err
	}

	budgetOverview, err := s.budgetService.Overview(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		TotalBalance:           totalBalance,
		MonthlyIncome:          income,
		MonthlyExpenses:        expenses,
		MonthlySavings:         savings,
		SavingsRate:            savingsRate,
		TotalTransactionCount:  transactionCount,
		UnreadAlertCount:       unreadAlerts,
		ActiveGoalCount:        activeGoals,
		PendingSuggestionCount: pendingSuggestions,
		TopExpenseCategories:   topCategories,
		RecentTransactions:     recent,
		BudgetOverview:         budgetOverview,
	}, nil
}
