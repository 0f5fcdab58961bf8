package reconcile

import (
	"time"

	"payments-monitor/internal/models"

	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// Revenue is the per-customer charge aggregate, kept in minor units
type Revenue struct {
	LifetimeMinor int64
	LastPaidAt    time.Time
}

// MinorToMajor converts minor currency units (cents) to major units
func MinorToMajor(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

// AggregateRevenue sums counted charges per identity key. Charges whose customer
// id is absent from idToKey are orphans and skipped.
func AggregateRevenue(idToKey map[string]string, charges []models.Charge) map[string]Revenue {
	out := make(map[string]Revenue)
	for _, ch := range charges {
		if !ch.Counts() {
			continue
		}
		key, ok := idToKey[ch.CustomerID]
		if !ok {
			continue
		}
		rev := out[key]
		rev.LifetimeMinor += ch.Amount
		if ch.Created.After(rev.LastPaidAt) {
			rev.LastPaidAt = ch.Created
		}
		out[key] = rev
	}
	return out
}

// MonthlyRecurring returns MRR in major units rounded to 2 decimals.
// Yearly items count as a twelfth; every other interval at face value.
func MonthlyRecurring(subs []models.Subscription) decimal.Decimal {
	total := decimal.Zero
	for _, sub := range subs {
		if sub.Status != models.SubscriptionStatusActive {
			continue
		}
		for _, it := range sub.Items {
			amt := decimal.NewFromInt(it.Quantity * it.UnitAmount)
			if it.Interval == models.IntervalYear {
				amt = amt.Div(monthsPerYear)
			}
			total = total.Add(amt)
		}
	}
	return total.Shift(-2).Round(2)
}

// InvoiceOverdueSeed flags keys owning an open invoice whose effective due time
// is before now.
func InvoiceOverdueSeed(idToKey map[string]string, invoices []models.Invoice, now time.Time) map[string]bool {
	seed := make(map[string]bool)
	for _, inv := range invoices {
		if inv.Status != models.InvoiceStatusOpen {
			continue
		}
		key, ok := idToKey[inv.CustomerID]
		if !ok {
			continue
		}
		due := inv.EffectiveDue()
		if !due.IsZero() && due.Before(now) {
			seed[key] = true
		}
	}
	return seed
}
