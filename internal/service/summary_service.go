package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/event"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// RecalculateDefaultMonths is how many months back RecalculateUserData
	// reaches; with the current month included that is 13 summaries.
	RecalculateDefaultMonths = 12
)

// SummaryService computes one idempotent, upsertable summary per
// (user, calendar month) from the ledger.
type SummaryService struct {
	summaryRepo     domain.MonthlySummaryRepository
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	locks           *util.KeyLock
	publisher       event.Publisher
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(
	summaryRepo domain.MonthlySummaryRepository,
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	locks *util.KeyLock,
	publisher event.Publisher,
) *SummaryService {
	return &SummaryService{
		summaryRepo:     summaryRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		locks:           locks,
		publisher:       publisher,
	}
}

func summaryKey(userID uuid.UUID, month time.Time) string {
	return fmt.Sprintf("summary:%s:%s", userID, month.Format("2006-01"))
}

// Compute recalculates the summary for the user's month from scratch and
// upserts it. Repeated calls for the same key update the existing row,
// never create a second one; concurrent calls for the same key are
// serialized. Nothing is written when the ledger read fails.
func (s *SummaryService) Compute(ctx context.Context, userID uuid.UUID, monthYear time.Time) (*domain.MonthlySummary, error) {
	month := util.MonthStart(monthYear)

	unlock := s.locks.Lock(summaryKey(userID, month))
	defer unlock()

	start, end := util.MonthBoundaries(month.Year(), int(month.Month()))
	transactions, err := s.transactionRepo.Query(ctx, userID, &domain.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, err
	}

	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	totalAll := decimal.Zero

	// Per-category debit totals; firstSeen preserves input order for ties.
	expenseByCategory := make(map[int32]decimal.Decimal)
	firstSeen := make([]int32, 0)

	for _, tx := range transactions {
		totalAll = totalAll.Add(tx.Amount)

		switch tx.Type {
		case domain.TransactionTypeCredit:
			totalIncome = totalIncome.Add(tx.Amount)
		case domain.TransactionTypeDebit:
			totalExpenses = totalExpenses.Add(tx.Amount)

			key := int32(0)
			if tx.CategoryID != nil {
				key = *tx.CategoryID
			}
			if _, ok := expenseByCategory[key]; !ok {
				firstSeen = append(firstSeen, key)
			}
			expenseByCategory[key] = expenseByCategory[key].Add(tx.Amount)
		}
	}

	netSavings := totalIncome.Sub(totalExpenses)
	count := len(transactions)

	average := decimal.Zero
	if count > 0 {
		// Average over all transactions, income and expenses together
		average = totalAll.Div(decimal.NewFromInt(int64(count)))
	}

	savingsRate := decimal.Zero
	if totalIncome.IsPositive() {
		savingsRate = netSavings.Div(totalIncome).Mul(decimal.NewFromInt(100))
	}

	topCategoryID, topAmount := topExpense(expenseByCategory, firstSeen)

	summary := &domain.MonthlySummary{
		UserID:                   userID,
		MonthYear:                month,
		TotalIncome:              totalIncome,
		TotalExpenses:            totalExpenses,
		NetSavings:               netSavings,
		TopExpenseCategoryID:     topCategoryID,
		TopExpenseAmount:         topAmount,
		TransactionCount:         count,
		AverageTransactionAmount: average,
		SavingsRate:              savingsRate,
		IsFinal:                  util.IsHistoricalMonth(month.Year(), int(month.Month())),
	}

	// A final summary never reverts to provisional.
	existing, err := s.summaryRepo.GetByMonth(ctx, userID, month)
	if err != nil && !errors.Is(err, domain.ErrSummaryNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsFinal {
		summary.IsFinal = true
	}

	persisted, err := s.summaryRepo.Upsert(ctx, summary)
	if err != nil {
		return nil, err
	}

	if err := s.resolveTopCategoryName(ctx, userID, persisted); err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, event.SummaryUpdated(persisted))

	return persisted, nil
}

// topExpense picks the category with the largest debit total, breaking ties
// by first-seen group.
func topExpense(byCategory map[int32]decimal.Decimal, firstSeen []int32) (*int32, decimal.Decimal) {
	var topKey *int32
	top := decimal.Zero

	for _, key := range firstSeen {
		amount := byCategory[key]
		if topKey == nil || amount.GreaterThan(top) {
			k := key
			topKey = &k
			top = amount
		}
	}

	if topKey == nil || *topKey == 0 {
		// No debits, or the largest group is uncategorized
		return nil, top
	}
	return topKey, top
}

func (s *SummaryService) resolveTopCategoryName(ctx context.Context, userID uuid.UUID, summary *domain.MonthlySummary) error {
	if summary.TopExpenseCategoryID == nil {
		return nil
	}
	category, err := s.categoryRepo.GetByID(ctx, userID, *summary.TopExpenseCategoryID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil
		}
		return err
	}
	summary.TopExpenseCategoryName = category.Name
	return nil
}

// RecalculateRange recomputes the current month and the preceding `months`
// months. Distinct months are independent aggregation units and run in
// parallel; the per-key lock keeps same-month recomputes serialized.
func (s *SummaryService) RecalculateRange(ctx context.Context, userID uuid.UUID, months int) error {
	if months < 0 || months > domain.MaxRecalculateMonths {
		return domain.ErrInvalidArgument
	}

	current := util.MonthStart(time.Now())

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i <= months; i++ {
		month := current.AddDate(0, -i, 0)
		g.Go(func() error {
			_, err := s.Compute(ctx, userID, month)
			return err
		})
	}
	return g.Wait()
}

// RecalculateUserData refreshes the trailing 13 months of summaries
func (s *SummaryService) RecalculateUserData(ctx context.Context, userID uuid.UUID) error {
	if err := s.RecalculateRange(ctx, userID, RecalculateDefaultMonths); err != nil {
		return err
	}
	s.publisher.Publish(userID, event.SummaryRecalculated(map[string]int{"months": RecalculateDefaultMonths + 1}))
	return nil
}

// GetMonthlyReports lists the user's summaries, optionally restricted to one
// year, ordered by month ascending. Past months without activity are
// omitted; the in-progress current month is computed on demand when the
// requested year covers it.
func (s *SummaryService) GetMonthlyReports(ctx context.Context, userID uuid.UUID, year *int) ([]*domain.MonthlySummary, error) {
	summaries, err := s.summaryRepo.ListByUser(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	currentMonth := util.MonthStart(now)

	result := make([]*domain.MonthlySummary, 0, len(summaries))
	haveCurrent := false
	for _, summary := range summaries {
		if summary.TransactionCount == 0 && summary.IsFinal {
			continue
		}
		if summary.MonthYear.Equal(currentMonth) {
			haveCurrent = true
		}
		result = append(result, summary)
	}

	if !haveCurrent && (year == nil || *year == now.Year()) {
		current, err := s.Compute(ctx, userID, currentMonth)
		if err != nil {
			return nil, err
		}
		result = append(result, current)
		sort.Slice(result, func(i, j int) bool {
			return result[i].MonthYear.Before(result[j].MonthYear)
		})
	}

	return result, nil
}
