package domain

import "errors"

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrBudgetNotFound     = errors.New("budget not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrSummaryNotFound    = errors.New("monthly summary not found")
	ErrPreferenceNotFound = errors.New("savings preference not found")
	ErrInvalidPeriod      = errors.New("invalid period: end before start")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidAmount      = errors.New("amount must not be negative")
	ErrStaleWrite         = errors.New("stale write conflict")
	ErrInternalError      = errors.New("internal error")
)

// Validation constants
const (
	// MinProjectionMonths and MaxProjectionMonths bound forward projections.
	MinProjectionMonths = 1
	MaxProjectionMonths = 60

	// MaxRecalculateMonths bounds how far back a batch recalculation reaches.
	MaxRecalculateMonths = 60
)
