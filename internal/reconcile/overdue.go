package reconcile

import (
	"time"

	"payments-monitor/internal/models"
)

// ClassifyOverdue unions the invoice seed with the payment-recency check.
// Customers that never paid are always past the threshold.
func ClassifyOverdue(customers map[string]models.MergedCustomer, seed map[string]bool, thresholdDays int, now time.Time) map[string]bool {
	threshold := time.Duration(thresholdDays) * 24 * time.Hour
	overdue := make(map[string]bool, len(seed))

	for key := range seed {
		if _, ok := customers[key]; ok {
			overdue[key] = true
		}
	}
	for key, c := range customers {
		if !c.HasPaid() || now.Sub(c.LastPaidAt) > threshold {
			overdue[key] = true
		}
	}
	return overdue
}
