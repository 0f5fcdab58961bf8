package models

import "time"

// Platform status values that drive aggregation
const (
	ChargeStatusSucceeded    = "succeeded"
	InvoiceStatusOpen        = "open"
	SubscriptionStatusActive = "active"
	IntervalYear             = "year"
	IntervalMonth            = "month"
)

// LineItem is one priced item of a subscription, amounts in minor currency units
type LineItem struct {
	Quantity   int64  `json:"quantity"`
	UnitAmount int64  `json:"unit_amount"`
	Interval   string `json:"interval"`
}

// Subscription as returned by the billing platform
type Subscription struct {
	ID     string     `json:"id"`
	Status string     `json:"status"`
	Items  []LineItem `json:"items"`
}

// CustomerRecord is a raw customer from the billing platform
type CustomerRecord struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	Subscriptions []Subscription `json:"subscriptions"`
}

// Charge is a single payment attempt
type Charge struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	Paid       bool      `json:"paid"`
	Amount     int64     `json:"amount"`
	Created    time.Time `json:"created"`
}

// Counts reports whether the charge contributes to revenue
func (c Charge) Counts() bool {
	return c.Status == ChargeStatusSucceeded && c.Paid
}

// Invoice is a platform invoice. Zero times mean the field was absent.
type Invoice struct {
	ID                 string    `json:"id"`
	CustomerID         string    `json:"customer_id"`
	Status             string    `json:"status"`
	DueDate            time.Time `json:"due_date"`
	NextPaymentAttempt time.Time `json:"next_payment_attempt"`
	Created            time.Time `json:"created"`
}

// EffectiveDue returns due date, else next payment attempt, else creation time
func (i Invoice) EffectiveDue() time.Time {
	switch {
	case !i.DueDate.IsZero():
		return i.DueDate
	case !i.NextPaymentAttempt.IsZero():
		return i.NextPaymentAttempt
	default:
		return i.Created
	}
}

// ManagedSite is a website from the site registry
type ManagedSite struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}
