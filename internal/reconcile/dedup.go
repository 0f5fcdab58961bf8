package reconcile

import (
	"strings"

	"payments-monitor/internal/models"
)

// MergeResult holds deduplicated customers and the alias table built while merging
type MergeResult struct {
	// Customers maps identity key to the representative record
	Customers map[string]*models.CustomerRecord
	// Order lists identity keys in first-seen order
	Order []string
	// IDToKey maps every raw platform id to its identity key, merged-away ids included
	IDToKey map[string]string
}

// IdentityKey derives the dedup key: email, else name, else platform id
func IdentityKey(rec models.CustomerRecord) string {
	if key := strings.ToLower(strings.TrimSpace(rec.Email)); key != "" {
		return key
	}
	if key := strings.ToLower(strings.TrimSpace(rec.Name)); key != "" {
		return key
	}
	return rec.ID
}

// MergeCustomers collapses records sharing an identity key. The first record seen
// becomes the representative; later duplicates only contribute their subscriptions
// and fill display fields the representative left empty. Input is not modified.
func MergeCustomers(raw []models.CustomerRecord) *MergeResult {
	res := &MergeResult{
		Customers: make(map[string]*models.CustomerRecord, len(raw)),
		IDToKey:   make(map[string]string, len(raw)),
	}

	for _, rec := range raw {
		key := IdentityKey(rec)
		res.IDToKey[rec.ID] = key

		rep, seen := res.Customers[key]
		if !seen {
			cp := rec
			cp.Subscriptions = append([]models.Subscription(nil), rec.Subscriptions...)
			res.Customers[key] = &cp
			res.Order = append(res.Order, key)
			continue
		}

		rep.Subscriptions = append(rep.Subscriptions, rec.Subscriptions...)
		if rep.Name == "" {
			rep.Name = rec.Name
		}
		if rep.Email == "" {
			rep.Email = rec.Email
		}
	}

	return res
}
