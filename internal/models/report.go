package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	NoName  = "(No name)"
	NoEmail = "(No email)"
)

// MergedCustomer is one deduplicated customer keyed by identity key
type MergedCustomer struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	LifetimeTotal decimal.Decimal `json:"lifetime_total"`
	MRR           decimal.Decimal `json:"mrr"`
	LastPaidAt    time.Time       `json:"last_paid_at"`
}

// HasPaid reports whether a successful charge was ever seen
func (c MergedCustomer) HasPaid() bool {
	return !c.LastPaidAt.IsZero()
}

// Report is the cached reconciliation snapshot. It is never mutated once built.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	ExpiresAt   time.Time `json:"expires_at"`

	Customers     map[string]MergedCustomer `json:"customers"`
	CustomerOrder []string                  `json:"customer_order"`
	OverdueIDs    map[string]bool           `json:"overdue_ids"`

	Sites     map[string]string `json:"sites"`
	SiteOrder []string          `json:"site_order"`

	MatchedSites     map[string]string   `json:"matched_sites"`
	MatchedCustomers map[string][]string `json:"matched_customers"`
}

// Expired reports whether the snapshot is past its TTL at now
func (r *Report) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// IsOverdue reports whether key was classified overdue
func (r *Report) IsOverdue(key string) bool {
	return r.OverdueIDs[key]
}

// UnmatchedSites returns sites without a match, in site order
func (r *Report) UnmatchedSites() []string {
	var out []string
	for _, url := range r.SiteOrder {
		if _, ok := r.MatchedSites[url]; !ok {
			out = append(out, url)
		}
	}
	return out
}

// UnmatchedCustomers returns customers without a site, in customer order
func (r *Report) UnmatchedCustomers() []string {
	var out []string
	for _, key := range r.CustomerOrder {
		if _, ok := r.MatchedCustomers[key]; !ok {
			out = append(out, key)
		}
	}
	return out
}
