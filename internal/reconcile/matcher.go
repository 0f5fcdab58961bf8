package reconcile

import (
	"strings"

	"payments-monitor/internal/models"
)

// MatchInput bundles everything the site matcher reads
type MatchInput struct {
	Sites         []models.ManagedSite
	Customers     map[string]models.MergedCustomer
	CustomerOrder []string
	Manual        map[string]string
	Unlinked      map[string]bool
}

// MatchSites resolves every site to a customer key. Unlinked sites are skipped
// outright, a manual mapping to a known customer wins next, and otherwise the
// first customer (in CustomerOrder) whose "email name" contains the site domain
// is taken. Ambiguous domains silently keep the first hit.
func MatchSites(in MatchInput) (matchedSites map[string]string, matchedCustomers map[string][]string) {
	matchedSites = make(map[string]string)
	matchedCustomers = make(map[string][]string)

	haystacks := make([]string, len(in.CustomerOrder))
	for i, key := range in.CustomerOrder {
		c := in.Customers[key]
		haystacks[i] = strings.ToLower(c.Email + " " + c.Name)
	}

	for _, site := range in.Sites {
		if in.Unlinked[site.URL] {
			continue
		}

		key := ""
		if manual, ok := in.Manual[site.URL]; ok {
			if _, known := in.Customers[manual]; known {
				key = manual
			}
		}

		if key == "" {
			if domain := ExtractDomain(site.URL); domain != "" {
				for i, hay := range haystacks {
					if strings.Contains(hay, domain) {
						key = in.CustomerOrder[i]
						break
					}
				}
			}
		}

		if key == "" {
			continue
		}
		matchedSites[site.URL] = key
		matchedCustomers[key] = append(matchedCustomers[key], site.URL)
	}

	return matchedSites, matchedCustomers
}
