package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "CREDIT"
	TransactionTypeDebit  TransactionType = "DEBIT"
)

type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "DAILY"
	FrequencyWeekly  RecurringFrequency = "WEEKLY"
	FrequencyMonthly RecurringFrequency = "MONTHLY"
	FrequencyYearly  RecurringFrequency = "YEARLY"
)

// Transaction is a single dated money movement. Amount is always
// non-negative; direction is carried exclusively by Type.
type Transaction struct {
	ID                  int32               `json:"id"`
	UserID              uuid.UUID           `json:"userId"`
	AccountID           int32               `json:"accountId"`
	CategoryID          *int32              `json:"categoryId,omitempty"`
	MerchantID          *int32              `json:"merchantId,omitempty"`
	Description         string              `json:"description"`
	Amount              decimal.Decimal     `json:"amount"`
	Type                TransactionType     `json:"type"`
	TransactionDate     time.Time           `json:"transactionDate"`
	PostedDate          *time.Time          `json:"postedDate,omitempty"`
	IsRecurring         bool                `json:"isRecurring"`
	RecurringFrequency  *RecurringFrequency `json:"recurringFrequency,omitempty"`
	ManuallyCategorized bool                `json:"manuallyCategorized"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// TransactionFilter narrows a ledger query. Nil fields are not applied.
// Date bounds are inclusive on both ends.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int32
	Type       *TransactionType
}

// TransactionRepository is the read-only view of the ledger consumed by the
// aggregation services. Aggregation never writes transactions.
type TransactionRepository interface {
	Query(ctx context.Context, userID uuid.UUID, filter *TransactionFilter) ([]*Transaction, error)
	GetRecent(ctx context.Context, userID uuid.UUID, limit int32) ([]*Transaction, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	SumByTypeAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time, txType TransactionType) (decimal.Decimal, error)
}
