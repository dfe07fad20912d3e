package format

import (
	"time"

	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
)

// BillingPeriodFor returns the calendar month before now.
func BillingPeriodFor(now time.Time) invoicedomain.BillingPeriod {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := first.AddDate(0, -1, 0)
	return invoicedomain.BillingPeriod{Year: prev.Year(), Month: prev.Month()}
}

// DueDate adds the lease's payment delay to the issue date.
func DueDate(issued time.Time, payDayDelay int) time.Time {
	if payDayDelay < 0 {
		payDayDelay = 0
	}
	return Day(issued).AddDate(0, 0, payDayDelay)
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
