package models

import "time"

// MatchedRow is a site paired with its customer
type MatchedRow struct {
	SiteURL       string `json:"site_url"`
	CustomerID    string `json:"customer_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Note          string `json:"note,omitempty"`
	LifetimeTotal string `json:"lifetime_total"`
	MRR           string `json:"mrr"`
	LastPaid      string `json:"last_paid"`
	Overdue       bool   `json:"overdue"`
	Ignored       bool   `json:"ignored"`
}

// SiteRow is an unmatched or ignored website
type SiteRow struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// CustomerRow is an unmatched or ignored customer
type CustomerRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Note          string `json:"note,omitempty"`
	LifetimeTotal string `json:"lifetime_total"`
}

// Dashboard is the presentation view of a report after the preference overlay
type Dashboard struct {
	RunID              string        `json:"run_id"`
	GeneratedAt        time.Time     `json:"generated_at"`
	Matched            []MatchedRow  `json:"matched"`
	UnmatchedSites     []SiteRow     `json:"unmatched_sites"`
	UnmatchedCustomers []CustomerRow `json:"unmatched_customers"`
	IgnoredSites       []SiteRow     `json:"ignored_sites"`
	IgnoredCustomers   []CustomerRow `json:"ignored_customers"`
	UnlinkedSites      []string      `json:"unlinked_sites"`
	OverdueCount       int           `json:"overdue_count"`
}
