package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MockTransactionRepository is an in-memory implementation of
// domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions []*domain.Transaction
	NextID       int32
	QueryFn      func(ctx context.Context, userID uuid.UUID, filter *domain.TransactionFilter) ([]*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{NextID: 1}
}

// AddTransaction adds a transaction to the mock ledger (helper for tests)
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	if tx.ID == 0 {
		tx.ID = m.NextID
		m.NextID++
	}
	m.Transactions = append(m.Transactions, tx)
}

// Query returns the user's transactions matching the filter, in input order
func (m *MockTransactionRepository) Query(ctx context.Context, userID uuid.UUID, filter *domain.TransactionFilter) ([]*domain.Transaction, error) {
	if m.QueryFn != nil {
		return m.QueryFn(ctx, userID, filter)
	}

	result := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.UserID != userID {
			continue
		}
		if filter != nil {
			if filter.StartDate != nil && tx.TransactionDate.Before(*filter.StartDate) {
				continue
			}
			if filter.EndDate != nil && tx.TransactionDate.After(*filter.EndDate) {
				continue
			}
			if filter.CategoryID != nil && (tx.CategoryID == nil || *tx.CategoryID != *filter.CategoryID) {
				continue
			}
			if filter.Type != nil && tx.Type != *filter.Type {
				continue
			}
		}
		result = append(result, tx)
	}
	return result, nil
}

// GetRecent returns the user's newest transactions by date
func (m *MockTransactionRepository) GetRecent(ctx context.Context, userID uuid.UUID, limit int32) ([]*domain.Transaction, error) {
	all, err := m.Query(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].TransactionDate.After(all[j].TransactionDate)
	})
	if int32(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

// CountByUser returns the user's total transaction count
func (m *MockTransactionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	all, err := m.Query(ctx, userID, nil)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

// SumByTypeAndDateRange sums amounts of the given type inside [start, end]
func (m *MockTransactionRepository) SumByTypeAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time, txType domain.TransactionType) (decimal.Decimal, error) {
	matches, err := m.Query(ctx, userID, &domain.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
		Type:      &txType,
	})
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, tx := range matches {
		sum = sum.Add(tx.Amount)
	}
	return sum, nil
}

// MockBudgetRepository is an in-memory implementation of
// domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets          map[int32]*domain.Budget
	NextID           int32
	UpdateSpentCalls int
	UpdateSpentFn    func(ctx context.Context, userID uuid.UUID, id int32, spent decimal.Decimal) error
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		NextID:  1,
	}
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	if budget.ID == 0 {
		budget.ID = m.NextID
		m.NextID++
	}
	m.Budgets[budget.ID] = budget
}

// Create persists a new budget
func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	budget.ID = m.NextID
	m.NextID++
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget owned by the user
func (m *MockBudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, nil
}

// GetActiveByUser returns the user's active budgets
func (m *MockBudgetRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	result := make([]*domain.Budget, 0)
	for _, budget := range m.Budgets {
		if budget.UserID == userID && budget.IsActive {
			result = append(result, budget)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update applies the non-nil fields of the update command
func (m *MockBudgetRepository) Update(ctx context.Context, userID uuid.UUID, id int32, update *domain.BudgetUpdate) (*domain.Budget, error) {
	budget, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if update.CategoryID != nil {
		budget.CategoryID = *update.CategoryID
	}
	if update.Amount != nil {
		budget.Amount = *update.Amount
	}
	if update.Period != nil {
		budget.Period = *update.Period
	}
	if update.StartDate != nil {
		budget.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		budget.EndDate = *update.EndDate
	}
	if update.IsActive != nil {
		budget.IsActive = *update.IsActive
	}
	budget.UpdatedAt = time.Now()
	return budget, nil
}

// UpdateSpent overwrites the derived CurrentSpent figure
func (m *MockBudgetRepository) UpdateSpent(ctx context.Context, userID uuid.UUID, id int32, spent decimal.Decimal) error {
	if m.UpdateSpentFn != nil {
		return m.UpdateSpentFn(ctx, userID, id, spent)
	}
	budget, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	m.UpdateSpentCalls++
	budget.CurrentSpent = spent
	budget.UpdatedAt = time.Now()
	return nil
}

// SoftDelete deactivates a budget
func (m *MockBudgetRepository) SoftDelete(ctx context.Context, userID uuid.UUID, id int32) error {
	budget, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	budget.IsActive = false
	return nil
}

// MockSummaryRepository is an in-memory implementation of
// domain.MonthlySummaryRepository. It enforces the (user, monthYear)
// uniqueness invariant the same way the database unique constraint does.
type MockSummaryRepository struct {
	mu       sync.Mutex
	rows     map[string]*domain.MonthlySummary
	NextID   int32
	Upserts  int
	UpsertFn func(ctx context.Context, summary *domain.MonthlySummary) (*domain.MonthlySummary, error)
}

// NewMockSummaryRepository creates a new MockSummaryRepository
func NewMockSummaryRepository() *MockSummaryRepository {
	return &MockSummaryRepository{
		rows:   make(map[string]*domain.MonthlySummary),
		NextID: 1,
	}
}

func summaryRowKey(userID uuid.UUID, monthYear time.Time) string {
	return fmt.Sprintf("%s:%s", userID, monthYear.Format("2006-01"))
}

// Upsert inserts or updates the row for (user, monthYear)
func (m *MockSummaryRepository) Upsert(ctx context.Context, summary *domain.MonthlySummary) (*domain.MonthlySummary, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, summary)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Upserts++
	key := summaryRowKey(summary.UserID, summary.MonthYear)

	stored := *summary
	if existing, ok := m.rows[key]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
		// Mirrors the SQL upsert: is_final OR EXCLUDED.is_final
		stored.IsFinal = existing.IsFinal || summary.IsFinal
	} else {
		stored.ID = m.NextID
		m.NextID++
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = time.Now()

	m.rows[key] = &stored
	result := stored
	return &result, nil
}

// GetByMonth returns the row for (user, monthYear), if any
func (m *MockSummaryRepository) GetByMonth(ctx context.Context, userID uuid.UUID, monthYear time.Time) (*domain.MonthlySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if row, ok := m.rows[summaryRowKey(userID, monthYear)]; ok {
		result := *row
		return &result, nil
	}
	return nil, domain.ErrSummaryNotFound
}

// ListByUser returns the user's summaries ordered by month ascending
func (m *MockSummaryRepository) ListByUser(ctx context.Context, userID uuid.UUID, year *int) ([]*domain.MonthlySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.MonthlySummary, 0)
	for _, row := range m.rows {
		if row.UserID != userID {
			continue
		}
		if year != nil && row.MonthYear.Year() != *year {
			continue
		}
		copied := *row
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].MonthYear.Before(result[j].MonthYear)
	})
	return result, nil
}

// RowCount returns the number of stored summary rows
func (m *MockSummaryRepository) RowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// MockCategoryRepository is an in-memory implementation of
// domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	NextID     int32
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID == 0 {
		category.ID = m.NextID
		m.NextID++
	}
	m.Categories[category.ID] = category
}

// GetByID retrieves a category owned by the user
func (m *MockCategoryRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// GetAllByUser returns the user's categories
func (m *MockCategoryRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	result := make([]*domain.Category, 0)
	for _, category := range m.Categories {
		if category.UserID == userID {
			result = append(result, category)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// MockPreferenceRepository is an in-memory implementation of
// domain.SavingsPreferenceRepository
type MockPreferenceRepository struct {
	Preferences map[uuid.UUID]*domain.SavingsPreference
}

// NewMockPreferenceRepository creates a new MockPreferenceRepository
func NewMockPreferenceRepository() *MockPreferenceRepository {
	return &MockPreferenceRepository{
		Preferences: make(map[uuid.UUID]*domain.SavingsPreference),
	}
}

// SetGoal stores a savings goal for the user (helper for tests)
func (m *MockPreferenceRepository) SetGoal(userID uuid.UUID, goal decimal.Decimal) {
	m.Preferences[userID] = &domain.SavingsPreference{UserID: userID, MonthlyGoal: goal}
}

// GetByUser returns the user's savings preference
func (m *MockPreferenceRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.SavingsPreference, error) {
	if pref, ok := m.Preferences[userID]; ok {
		return pref, nil
	}
	return nil, domain.ErrPreferenceNotFound
}

// MockAccountRepository is an in-memory implementation of
// domain.AccountRepository
type MockAccountRepository struct {
	Accounts []*domain.Account
	NextID   int32
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{NextID: 1}
}

// AddAccount adds an account to the mock repository (helper for tests)
func (m *MockAccountRepository) AddAccount(account *domain.Account) {
	if account.ID == 0 {
		account.ID = m.NextID
		m.NextID++
	}
	m.Accounts = append(m.Accounts, account)
}

// SumBalanceByUser sums the user's account balances
func (m *MockAccountRepository) SumBalanceByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, account := range m.Accounts {
		if account.UserID == userID && account.DeletedAt == nil {
			sum = sum.Add(account.Balance)
		}
	}
	return sum, nil
}

// MockEngagementRepository is an in-memory implementation of
// domain.EngagementRepository
type MockEngagementRepository struct {
	UnreadAlerts       map[uuid.UUID]int64
	ActiveGoals        map[uuid.UUID]int64
	PendingSuggestions map[uuid.UUID]int64
}

// NewMockEngagementRepository creates a new MockEngagementRepository
func NewMockEngagementRepository() *MockEngagementRepository {
	return &MockEngagementRepository{
		UnreadAlerts:       make(map[uuid.UUID]int64),
		ActiveGoals:        make(map[uuid.UUID]int64),
		PendingSuggestions: make(map[uuid.UUID]int64),
	}
}

// CountUnreadAlerts returns the user's unread alert count
func (m *MockEngagementRepository) CountUnreadAlerts(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.UnreadAlerts[userID], nil
}

// CountActiveGoals returns the user's active goal count
func (m *MockEngagementRepository) CountActiveGoals(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.ActiveGoals[userID], nil
}

// CountPendingSuggestions returns the user's pending suggestion count
func (m *MockEngagementRepository) CountPendingSuggestions(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.PendingSuggestions[userID], nil
}
