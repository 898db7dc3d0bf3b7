package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSpendingServiceForTest() (*SpendingService, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	return NewSpendingService(transactionRepo, categoryRepo), transactionRepo, categoryRepo
}

func TestSpendingByCategory(t *testing.T) {
	svc, transactionRepo, categoryRepo := newSpendingServiceForTest()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Food", Color: "#ff0000", Icon: "utensils"})
	categoryRepo.AddCategory(&domain.Category{ID: 2, UserID: userID, Name: "Transport", Color: "#00ff00", Icon: "bus"})

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(1),
		Amount: decimal.NewFromInt(60), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.January, 5),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(2),
		Amount: decimal.NewFromInt(30), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.January, 8),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(1),
		Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.January, 12),
	})
	// Credits never appear in the breakdown
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(1),
		Amount: decimal.NewFromInt(999), Type: domain.TransactionTypeCredit,
		TransactionDate: date(2025, time.January, 15),
	})

	result, err := svc.SpendingByCategory(context.Background(), userID, date(2025, time.January, 1), date(2025, time.January, 31))
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "Food", result[0].CategoryName)
	assert.Equal(t, "#ff0000", result[0].Color)
	assert.Equal(t, "utensils", result[0].Icon)
	assert.True(t, result[0].Amount.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, 2, result[0].Count)
	assert.True(t, result[0].Percentage.Equal(decimal.NewFromInt(70)))

	assert.Equal(t, "Transport", result[1].CategoryName)
	assert.True(t, result[1].Amount.Equal(decimal.NewFromInt(30)))
	assert.True(t, result[1].Percentage.Equal(decimal.NewFromInt(30)))

	// Shares cover the whole window
	sum := result[0].Percentage.Add(result[1].Percentage)
	assert.True(t, sum.Equal(decimal.NewFromInt(100)))
}

func TestSpendingByCategoryEmptyWindow(t *testing.T) {
	svc, _, _ := newSpendingServiceForTest()

	result, err := svc.SpendingByCategory(context.Background(), uuid.New(), date(2025, time.January, 1), date(2025, time.January, 31))
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSpendingByCategoryInvertedRange(t *testing.T) {
	svc, _, _ := newSpendingServiceForTest()

	_, err := svc.SpendingByCategory(context.Background(), uuid.New(), date(2025, time.February, 1), date(2025, time.January, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestSpendingByCategoryDefaultWindow(t *testing.T) {
	svc, transactionRepo, _ := newSpendingServiceForTest()
	userID := uuid.New()

	// Inside the trailing 30 days
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID,
		Amount: decimal.NewFromInt(40), Type: domain.TransactionTypeDebit,
		TransactionDate: time.Now().AddDate(0, 0, -5),
	})
	// Too old
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID,
		Amount: decimal.NewFromInt(75), Type: domain.TransactionTypeDebit,
		TransactionDate: time.Now().AddDate(0, 0, -90),
	})

	result, err := svc.SpendingByCategory(context.Background(), userID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].Amount.Equal(decimal.NewFromInt(40)))
}

func TestSpendingByCategoryUncategorized(t *testing.T) {
	svc, transactionRepo, categoryRepo := newSpendingServiceForTest()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Food"})

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(1),
		Amount: decimal.NewFromInt(20), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.March, 3),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID,
		Amount: decimal.NewFromInt(80), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.March, 4),
	})

	result, err := svc.SpendingByCategory(context.Background(), userID, date(2025, time.March, 1), date(2025, time.March, 31))
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Nil(t, result[0].CategoryID)
	assert.Equal(t, UncategorizedLabel, result[0].CategoryName)
	assert.True(t, result[0].Amount.Equal(decimal.NewFromInt(80)))
}

func TestSpendingByCategoryTieKeepsFirstSeen(t *testing.T) {
	svc, transactionRepo, categoryRepo := newSpendingServiceForTest()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Rent"})
	categoryRepo.AddCategory(&domain.Category{ID: 2, UserID: userID, Name: "Travel"})

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(2),
		Amount: decimal.NewFromInt(50), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.June, 2),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, CategoryID: intPtr(1),
		Amount: decimal.NewFromInt(50), Type: domain.TransactionTypeDebit,
		TransactionDate: date(2025, time.June, 9),
	})

	result, err := svc.SpendingByCategory(context.Background(), userID, date(2025, time.June, 1), date(2025, time.June, 30))
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Travel", result[0].CategoryName)
	assert.Equal(t, "Rent", result[1].CategoryName)
}

func TestSpendingByCategoryIsDeterministic(t *testing.T) {
	svc, transactionRepo, categoryRepo := newSpendingServiceForTest()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Food"})
	categoryRepo.AddCategory(&domain.Category{ID: 2, UserID: userID, Name: "Transport"})

	for day := 1; day <= 10; day++ {
		categoryID := int32(1 + day%2)
		transactionRepo.AddTransaction(&domain.Transaction{
			UserID: userID, CategoryID: &categoryID,
			Amount: decimal.NewFromInt(int64(day)), Type: domain.TransactionTypeDebit,
			TransactionDate: date(2025, time.July, day),
		})
	}

	first, err := svc.SpendingByCategory(context.Background(), userID, date(2025, time.July, 1), date(2025, time.July, 31))
	require.NoError(t, err)
	second, err := svc.SpendingByCategory(context.Background(), userID, date(2025, time.July, 1), date(2025, time.July, 31))
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].CategoryName, second[i].CategoryName)
		assert.True(t, first[i].Amount.Equal(second[i].Amount))
		assert.True(t, first[i].Percentage.Equal(second[i].Percentage))
	}
}
