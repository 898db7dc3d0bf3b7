package util

import (
	"time"

	"github.com/pennywise/pennywise-backend/internal/domain"
)

// MonthStart normalizes t to the first day of its month at midnight UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthBoundaries returns the first and last day of a month
func MonthBoundaries(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1) // Last day of month
	return start, end
}

// ResolvePeriod returns the window [start, end] containing ref for the given
// period kind. End is the period's last day; the next period starts the
// following day.
//
// WEEKLY weeks start on Monday. QUARTERLY aligns to the fixed calendar
// blocks Jan-Mar, Apr-Jun, Jul-Sep, Oct-Dec, not a rolling window.
func ResolvePeriod(period domain.BudgetPeriod, ref time.Time) (time.Time, time.Time, error) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	switch period {
	case domain.BudgetPeriodWeekly:
		// time.Weekday counts Sunday as 0
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6), nil

	case domain.BudgetPeriodMonthly:
		start, end := MonthBoundaries(day.Year(), int(day.Month()))
		return start, end, nil

	case domain.BudgetPeriodQuarterly:
		quarterMonth := ((int(day.Month())-1)/3)*3 + 1
		start := time.Date(day.Year(), time.Month(quarterMonth), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 3, -1), nil

	case domain.BudgetPeriodYearly:
		start := time.Date(day.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return start, time.Date(day.Year(), 12, 31, 0, 0, 0, 0, time.UTC), nil

	default:
		return time.Time{}, time.Time{}, domain.ErrInvalidArgument
	}
}

// IsHistoricalMonth returns true if the given year/month is before the current month
func IsHistoricalMonth(year, month int) bool {
	now := time.Now()
	if year < now.Year() {
		return true
	}
	return year == now.Year() && month < int(now.Month())
}
