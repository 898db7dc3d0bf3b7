package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultSpendingWindowDays is the trailing window used when the caller
	// supplies no date range
	DefaultSpendingWindowDays = 30

	// UncategorizedLabel names the group for transactions without a category
	UncategorizedLabel = "Uncategorized"
)

// SpendingService groups debit transactions by category over a window and
// normalizes the result to percentages. It is a pure read: an unchanged
// ledger slice reproduces identical output.
type SpendingService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
}

// NewSpendingService creates a new SpendingService
func NewSpendingService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository) *SpendingService {
	return &SpendingService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// SpendingByCategory returns the per-category debit breakdown for
// [from, to], ordered by amount descending with ties kept in first-seen
// order. Zero-valued bounds default to the trailing 30 days.
func (s *SpendingService) SpendingByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.CategorySpending, error) {
	if from.IsZero() && to.IsZero() {
		now := time.Now()
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		from = to.AddDate(0, 0, -DefaultSpendingWindowDays)
	}
	if from.After(to) {
		return nil, domain.ErrInvalidPeriod
	}

	debit := domain.TransactionTypeDebit
	transactions, err := s.transactionRepo.Query(ctx, userID, &domain.TransactionFilter{
		StartDate: &from,
		EndDate:   &to,
		Type:      &debit,
	})
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return []*domain.CategorySpending{}, nil
	}

	// Group by category identity, keeping first-seen order for tie breaks.
	// Key 0 collects uncategorized transactions (real IDs start at 1).
	groups := make(map[int32]*domain.CategorySpending)
	order := make([]int32, 0)
	total := decimal.Zero

	for _, tx := range transactions {
		key := int32(0)
		if tx.CategoryID != nil {
			key = *tx.CategoryID
		}

		group, ok := groups[key]
		if !ok {
			group = &domain.CategorySpending{
				CategoryID: tx.CategoryID,
				Amount:     decimal.Zero,
			}
			groups[key] = group
			order = append(order, key)
		}

		group.Amount = group.Amount.Add(tx.Amount)
		group.Count++
		total = total.Add(tx.Amount)
	}

	if err := s.decorate(ctx, userID, groups); err != nil {
		return nil, err
	}

	result := make([]*domain.CategorySpending, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if total.IsPositive() {
			group.Percentage = group.Amount.Div(total).Mul(decimal.NewFromInt(100))
		}
		result = append(result, group)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Amount.GreaterThan(result[j].Amount)
	})

	return result, nil
}

// decorate fills in display metadata for each group. Presentation only;
// grouping never depends on it.
func (s *SpendingService) decorate(ctx context.Context, userID uuid.UUID, groups map[int32]*domain.CategorySpending) error {
	categories, err := s.categoryRepo.GetAllByUser(ctx, userID)
	if err != nil {
		return err
	}

	byID := make(map[int32]*domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	for key, group := range groups {
		if key == 0 {
			group.CategoryName = UncategorizedLabel
			continue
		}
		if c, ok := byID[key]; ok {
			group.CategoryName = c.Name
			group.Color = c.Color
			group.Icon = c.Icon
		} else {
			group.CategoryName = UncategorizedLabel
		}
	}
	return nil
}
