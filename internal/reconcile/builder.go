package reconcile

import (
	"time"

	"payments-monitor/internal/models"
)

// Input is one complete pull of platform and registry data
type Input struct {
	Customers []models.CustomerRecord
	Charges   []models.Charge
	Invoices  []models.Invoice
	Sites     []models.ManagedSite

	Manual   map[string]string
	Unlinked map[string]bool
}

// Options tune classification
type Options struct {
	OverdueDays int
	Now         time.Time
}

// Build runs dedup, aggregation, overdue classification and site matching and
// assembles a fresh report. RunID and expiry are left to the caller.
func Build(in Input, opts Options) *models.Report {
	merged := MergeCustomers(in.Customers)
	revenue := AggregateRevenue(merged.IDToKey, in.Charges)
	seed := InvoiceOverdueSeed(merged.IDToKey, in.Invoices, opts.Now)

	customers := make(map[string]models.MergedCustomer, len(merged.Customers))
	for _, key := range merged.Order {
		rec := merged.Customers[key]
		rev := revenue[key]

		c := models.MergedCustomer{
			ID:            key,
			Name:          rec.Name,
			Email:         rec.Email,
			LifetimeTotal: MinorToMajor(rev.LifetimeMinor),
			MRR:           MonthlyRecurring(rec.Subscriptions),
			LastPaidAt:    rev.LastPaidAt,
		}
		if c.Name == "" {
			c.Name = models.NoName
		}
		if c.Email == "" {
			c.Email = models.NoEmail
		}
		customers[key] = c
	}

	overdue := ClassifyOverdue(customers, seed, opts.OverdueDays, opts.Now)

	sites := make(map[string]string, len(in.Sites))
	siteOrder := make([]string, 0, len(in.Sites))
	uniqueSites := make([]models.ManagedSite, 0, len(in.Sites))
	for _, s := range in.Sites {
		if _, dup := sites[s.URL]; dup {
			continue
		}
		sites[s.URL] = s.Name
		siteOrder = append(siteOrder, s.URL)
		uniqueSites = append(uniqueSites, s)
	}

	matchedSites, matchedCustomers := MatchSites(MatchInput{
		Sites:         uniqueSites,
		Customers:     customers,
		CustomerOrder: merged.Order,
		Manual:        in.Manual,
		Unlinked:      in.Unlinked,
	})

	return &models.Report{
		GeneratedAt:      opts.Now,
		Customers:        customers,
		CustomerOrder:    merged.Order,
		OverdueIDs:       overdue,
		Sites:            sites,
		SiteOrder:        siteOrder,
		MatchedSites:     matchedSites,
		MatchedCustomers: matchedCustomers,
	}
}
