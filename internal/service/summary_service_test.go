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

func newSummaryServiceForTest() (*SummaryService, *testutil.MockSummaryRepository, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository) {
	summaryRepo := testutil.NewMockSummaryRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewSummaryService(summaryRepo, transactionRepo, categoryRepo, util.NewKeyLock(), &event.NoOpPublisher{})
	return svc, summaryRepo, transactionRepo, categoryRepo
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int32) *int32 {
	return &v
}

func TestComputeMonthlySummary(t *testing.T) {
	svc, _, transactionRepo, categoryRepo := newSummaryServiceForTest()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Food"})

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromInt(5000),
		Type:            domain.TransactionTypeCredit,
		TransactionDate: date(2025, time.January, 15),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:          userID,
		CategoryID:      intPtr(1),
		Amount:          decimal.NewFromInt(100),
		Type:            domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.January, 10),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:          userID,
		CategoryID:      intPtr(1),
		Amount:          decimal.NewFromInt(50),
		Type:            domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.January, 20),
	})

	summary, err := svc.Compute(context.Background(), userID, date(2025, time.January, 1))
	require.NoError(t, err)

	assert.True(t, summary.MonthYear.Equal(date(2025, time.January, 1)))
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(5000)))
	assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(150)))
	assert.True(t, summary.NetSavings.Equal(decimal.NewFromInt(4850)))
	assert.Equal(t, 3, summary.TransactionCount)

	require.NotNil(t, summary.TopExpenseCategoryID)
	assert.Equal(t, int32(1), *summary.TopExpenseCategoryID)
	assert.Equal(t, "Food", summary.TopExpenseCategoryName)
	assert.True(t, summary.TopExpenseAmount.Equal(decimal.NewFromInt(150)))

	wantAverage := decimal.NewFromInt(5150).Div(decimal.NewFromInt(3))
	assert.True(t, summary.AverageTransactionAmount.Equal(wantAverage))
	assert.True(t, summary.SavingsRate.Equal(decimal.NewFromInt(97)))

	// January 2025 is long over
	assert.True(t, summary.IsFinal)
}

func TestComputeEmptyMonth(t *testing.T) {
	svc, _, _, _ := newSummaryServiceForTest()
	userID := uuid.New()

	summary, err := svc.Compute(context.Background(), userID, date(2024, time.June, 1))
	require.NoError(t, err)

	assert.True(t, summary.TotalIncome.IsZero())
	assert.True(t, summary.TotalExpenses.IsZero())
	assert.True(t, summary.NetSavings.IsZero())
	assert.Equal(t, 0, summary.TransactionCount)
	assert.Nil(t, summary.TopExpenseCategoryID)
	assert.True(t, summary.AverageTransactionAmount.IsZero())
	assert.True(t, summary.SavingsRate.IsZero())
}

func TestComputeNormalizesMonthInput(t *testing.T) {
	svc, summaryRepo, _, _ := newSummaryServiceForTest()
	userID := uuid.New()

	// Mid-month input lands on the same row as first-of-month input
	_, err := svc.Compute(context.Background(), userID, date(2025, time.March, 17))
	require.NoError(t, err)
	_, err = svc.Compute(context.Background(), userID, date(2025, time.March, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, summaryRepo.RowCount())
}

func TestComputeIsIdempotentOverRepeatedCalls(t *testing.T) {
	svc, summaryRepo, transactionRepo, _ := newSummaryServiceForTest()
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromInt(200),
		Type:            domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.February, 5),
	})

	var last *domain.MonthlySummary
	for i := 0; i < 3; i++ {
		summary, err := svc.Compute(context.Background(), userID, date(2025, time.February, 1))
		require.NoError(t, err)
		last = summary
	}

	assert.Equal(t, 1, summaryRepo.RowCount())
	assert.Equal(t, 3, summaryRepo.Upserts)
	assert.True(t, last.TotalExpenses.Equal(decimal.NewFromInt(200)))
}

func TestComputeFinalNeverRevertsToProvisional(t *testing.T) {
	svc, summaryRepo, _, _ := newSummaryServiceForTest()
	userID := uuid.New()

	currentMonth := util.MonthStart(time.Now())

	// A row already marked final, for the still-running month
	_, err := summaryRepo.Upsert(context.Background(), &domain.MonthlySummary{
		UserID:    userID,
		MonthYear: currentMonth,
		IsFinal:   true,
	})
	require.NoError(t, err)

	summary, err := svc.Compute(context.Background(), userID, currentMonth)
	require.NoError(t, err)
	assert.True(t, summary.IsFinal)
}

func TestComputeCurrentMonthIsProvisional(t *testing.T) {
	svc, _, _, _ := newSummaryServiceForTest()
	userID := uuid.New()

	summary, err := svc.Compute(context.Background(), userID, util.MonthStart(time.Now()))
	require.NoError(t, err)
	assert.False(t, summary.IsFinal)
}

func TestComputeTopExpenseTieKeepsFirstSeen(t *testing.T) {
	svc, _, transactionRepo, categoryRepo := newSummaryServiceForTest()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Rent"})
	categoryRepo.AddCategory(&domain.Category{ID: 2, UserID: userID, Name: "Travel"})

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:          userID,
		CategoryID:      intPtr(2),
		Amount:          decimal.NewFromInt(300),
		Type:            domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.April, 3),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:          userID,
		CategoryID:      intPtr(1),
		Amount:          decimal.NewFromInt(300),
		Type:            domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.April, 9),
	})

	summary, err := svc.Compute(context.Background(), userID, date(2025, time.April, 1))
	require.NoError(t, err)

	require.NotNil(t, summary.TopExpenseCategoryID)
	assert.Equal(t, int32(2), *summary.TopExpenseCategoryID)
	assert.Equal(t, "Travel", summary.TopExpenseCategoryName)
}

func TestComputeUncategorizedNeverWinsTopCategory(t *testing.T) {
	svc, _, transactionRepo, _ := newSummaryServiceForTest()
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromInt(400),
		Type:            domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.May, 12),
	})

	summary, err := svc.Compute(context.Background(), userID, date(2025, time.May, 1))
	require.NoError(t, err)

	assert.Nil(t, summary.TopExpenseCategoryID)
	assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(400)))
}

func TestRecalculateRangeRejectsOutOfBoundsMonths(t *testing.T) {
	svc, _, _, _ := newSummaryServiceForTest()
	userID := uuid.New()

	err := svc.RecalculateRange(context.Background(), userID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	err = svc.RecalculateRange(context.Background(), userID, domain.MaxRecalculateMonths+1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRecalculateRangeCoversEachMonth(t *testing.T) {
	svc, summaryRepo, _, _ := newSummaryServiceForTest()
	userID := uuid.New()

	err := svc.RecalculateRange(context.Background(), userID, 2)
	require.NoError(t, err)

	// Current month plus two preceding months
	assert.Equal(t, 3, summaryRepo.RowCount())
}

func TestGetMonthlyReports(t *testing.T) {
	svc, summaryRepo, transactionRepo, _ := newSummaryServiceForTest()
	userID := uuid.New()

	now := time.Now()
	currentMonth := util.MonthStart(now)
	previousMonth := currentMonth.AddDate(0, -1, 0)
	staleMonth := currentMonth.AddDate(0, -2, 0)

	// A past month with activity and a final month with none
	_, err := summaryRepo.Upsert(context.Background(), &domain.MonthlySummary{
		UserID:           userID,
		MonthYear:        previousMonth,
		TransactionCount: 4,
		IsFinal:          true,
	})
	require.NoError(t, err)
	_, err = summaryRepo.Upsert(context.Background(), &domain.MonthlySummary{
		UserID:    userID,
		MonthYear: staleMonth,
		IsFinal:   true,
	})
	require.NoError(t, err)

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromInt(25),
		Type:            domain.TransactionTypeDebit,
		TransactionDate: currentMonth,
	})

	reports, err := svc.GetMonthlyReports(context.Background(), userID, nil)
	require.NoError(t, err)

	// Empty final month dropped, current month computed on demand
	require.Len(t, reports, 2)
	assert.True(t, reports[0].MonthYear.Equal(previousMonth))
	assert.True(t, reports[1].MonthYear.Equal(currentMonth))
	assert.Equal(t, 1, reports[1].TransactionCount)
}

func TestGetMonthlyReportsFilteredByYear(t *testing.T) {
	svc, summaryRepo, _, _ := newSummaryServiceForTest()
	userID := uuid.New()

	_, err := summaryRepo.Upsert(context.Background(), &domain.MonthlySummary{
		UserID:           userID,
		MonthYear:        date(2023, time.November, 1),
		TransactionCount: 2,
		IsFinal:          true,
	})
	require.NoError(t, err)
	_, err = summaryRepo.Upsert(context.Background(), &domain.MonthlySummary{
		UserID:           userID,
		MonthYear:        date(2024, time.March, 1),
		TransactionCount: 7,
		IsFinal:          true,
	})
	require.NoError(t, err)

	year := 2023
	reports, err := svc.GetMonthlyReports(context.Background(), userID, &year)
	require.NoError(t, err)

	require.Len(t, reports, 1)
	assert.True(t, reports[0].MonthYear.Equal(date(2023, time.November, 1)))
}
