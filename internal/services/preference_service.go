package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"payments-monitor/internal/models"
	"payments-monitor/internal/timeutil"
)

// ErrInvalidRequest marks a user action that was rejected before touching storage
var ErrInvalidRequest = errors.New("invalid request")

// LoadPreferences reads every overlay option. Missing options are empty.
func LoadPreferences(ctx context.Context, store PreferenceStore) (*models.Preferences, error) {
	prefs := models.NewPreferences()
	targets := []struct {
		key  string
		dest any
	}{
		{models.OptionSiteCustomerMap, &prefs.ManualMapping},
		{models.OptionIgnoredSites, &prefs.IgnoredSites},
		{models.OptionIgnoredCustomers, &prefs.IgnoredCustomers},
		{models.OptionUnlinkedSites, &prefs.UnlinkedSites},
		{models.OptionSiteNotes, &prefs.SiteNotes},
		{models.OptionCustomerNotes, &prefs.CustomerNotes},
	}
	for _, t := range targets {
		if _, err := store.Get(ctx, t.key, t.dest); err != nil {
			return nil, fmt.Errorf("load option %s: %w", t.key, err)
		}
	}

	// a stored JSON null decodes to a nil map
	if prefs.ManualMapping == nil {
		prefs.ManualMapping = map[string]string{}
	}
	if prefs.IgnoredSites == nil {
		prefs.IgnoredSites = map[string]bool{}
	}
	if prefs.IgnoredCustomers == nil {
		prefs.IgnoredCustomers = map[string]bool{}
	}
	if prefs.UnlinkedSites == nil {
		prefs.UnlinkedSites = map[string]bool{}
	}
	if prefs.SiteNotes == nil {
		prefs.SiteNotes = map[string]string{}
	}
	if prefs.CustomerNotes == nil {
		prefs.CustomerNotes = map[string]string{}
	}
	return prefs, nil
}

// SavePreferences writes every overlay option
func SavePreferences(ctx context.Context, store PreferenceStore, prefs *models.Preferences) error {
	values := []struct {
		key   string
		value any
	}{
		{models.OptionSiteCustomerMap, prefs.ManualMapping},
		{models.OptionIgnoredSites, prefs.IgnoredSites},
		{models.OptionIgnoredCustomers, prefs.IgnoredCustomers},
		{models.OptionUnlinkedSites, prefs.UnlinkedSites},
		{models.OptionSiteNotes, prefs.SiteNotes},
		{models.OptionCustomerNotes, prefs.CustomerNotes},
	}
	for _, v := range values {
		if err := store.Set(ctx, v.key, v.value); err != nil {
			return fmt.Errorf("save option %s: %w", v.key, err)
		}
	}
	return nil
}

// PreferenceService applies user actions and overlays preferences on reports
type PreferenceService struct {
	store   PreferenceStore
	reports *ReportService
	secrets *SecretResolver
}

func NewPreferenceService(store PreferenceStore, reports *ReportService, secrets *SecretResolver) *PreferenceService {
	return &PreferenceService{store: store, reports: reports, secrets: secrets}
}

// Apply performs one action, persists the options and drops the cached report
// so the change shows on the next read
func (s *PreferenceService) Apply(ctx context.Context, req *models.ActionRequest) error {
	site := strings.TrimSpace(req.SiteURL)
	cid := strings.TrimSpace(req.CustomerID)
	note := strings.TrimSpace(req.Note)

	prefs, err := LoadPreferences(ctx, s.store)
	if err != nil {
		return err
	}

	switch req.Action {
	case models.ActionUnlink:
		if site == "" {
			return fmt.Errorf("%w: site_url is required", ErrInvalidRequest)
		}
		delete(prefs.ManualMapping, site)
		prefs.UnlinkedSites[site] = true

	case models.ActionAllowAutomatch:
		if site == "" {
			return fmt.Errorf("%w: site_url is required", ErrInvalidRequest)
		}
		delete(prefs.UnlinkedSites, site)

	case models.ActionIgnoreClient:
		if cid == "" {
			return fmt.Errorf("%w: customer_id is required", ErrInvalidRequest)
		}
		prefs.IgnoredCustomers[cid] = true
		if note != "" {
			prefs.CustomerNotes[cid] = note
		}

	case models.ActionUnignoreClient:
		if cid == "" {
			return fmt.Errorf("%w: customer_id is required", ErrInvalidRequest)
		}
		delete(prefs.IgnoredCustomers, cid)
		delete(prefs.CustomerNotes, cid)

	case models.ActionIgnoreSite:
		if site == "" {
			return fmt.Errorf("%w: site_url is required", ErrInvalidRequest)
		}
		prefs.IgnoredSites[site] = true
		if note != "" {
			prefs.SiteNotes[site] = note
		}

	case models.ActionUnignoreSite:
		if site == "" {
			return fmt.Errorf("%w: site_url is required", ErrInvalidRequest)
		}
		delete(prefs.IgnoredSites, site)
		delete(prefs.SiteNotes, site)

	case models.ActionSaveMapping:
		if site == "" || cid == "" {
			return fmt.Errorf("%w: site_url and customer_id are required", ErrInvalidRequest)
		}
		key, err := s.customerKey(cid)
		if err != nil {
			return err
		}
		cid = key
		prefs.ManualMapping[site] = cid
		// a manual mapping lifts an earlier unlink
		delete(prefs.UnlinkedSites, site)

	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidRequest, req.Action)
	}

	if err := SavePreferences(ctx, s.store, prefs); err != nil {
		return err
	}

	log.Printf("[Preferences] Applied %s (site=%q customer=%q)", req.Action, site, cid)
	s.reports.InvalidateCache(ctx)
	return nil
}

// customerKey resolves a submitted customer id to the identity key used in the
// cached report, ignoring case. Keys the report does not know are rejected.
// Without a cached report the id is kept as submitted.
func (s *PreferenceService) customerKey(cid string) (string, error) {
	report, ok := s.reports.Cached()
	if !ok {
		return cid, nil
	}
	if _, known := report.Customers[cid]; known {
		return cid, nil
	}
	for _, key := range report.CustomerOrder {
		if strings.EqualFold(key, cid) {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: unknown customer %q", ErrInvalidRequest, cid)
}

// SaveSecret stores a new Stripe key and drops the cached report
func (s *PreferenceService) SaveSecret(ctx context.Context, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return fmt.Errorf("%w: secret_key is required", ErrInvalidRequest)
	}
	if err := s.secrets.SaveStripeSecret(ctx, secret); err != nil {
		return err
	}
	s.reports.InvalidateCache(ctx)
	return nil
}

// ClearCacheAndIgnoreLists drops the report and forgets ignore lists and notes.
// Manual mappings and unlinks are kept.
func (s *PreferenceService) ClearCacheAndIgnoreLists(ctx context.Context) error {
	s.reports.InvalidateCache(ctx)
	for _, key := range []string{
		models.OptionIgnoredCustomers,
		models.OptionIgnoredSites,
		models.OptionCustomerNotes,
		models.OptionSiteNotes,
	} {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete option %s: %w", key, err)
		}
	}
	return nil
}

// Report resolves the configured secret and returns the raw snapshot
func (s *PreferenceService) Report(ctx context.Context, forceRefresh bool) (*models.Report, error) {
	return s.reports.GetReport(ctx, s.secrets.StripeSecret(ctx), forceRefresh)
}

// Dashboard resolves the secret, fetches the report and applies the overlay
func (s *PreferenceService) Dashboard(ctx context.Context, forceRefresh bool) (*models.Dashboard, error) {
	report, err := s.Report(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	prefs, err := LoadPreferences(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return BuildDashboard(report, prefs), nil
}

// BuildDashboard filters a report through the preferences for presentation.
// The report itself is left untouched.
func BuildDashboard(report *models.Report, prefs *models.Preferences) *models.Dashboard {
	overdue := make(map[string]bool, len(report.OverdueIDs))
	for key := range report.OverdueIDs {
		if !prefs.IgnoredCustomers[key] {
			overdue[key] = true
		}
	}

	d := &models.Dashboard{
		RunID:              report.RunID,
		GeneratedAt:        report.GeneratedAt,
		Matched:            []models.MatchedRow{},
		UnmatchedSites:     []models.SiteRow{},
		UnmatchedCustomers: []models.CustomerRow{},
		IgnoredSites:       []models.SiteRow{},
		IgnoredCustomers:   []models.CustomerRow{},
		UnlinkedSites:      []string{},
		OverdueCount:       len(overdue),
	}

	// every ignored site is listed, registered or not, so it can be un-ignored
	ignored := make([]string, 0, len(prefs.IgnoredSites))
	for url, on := range prefs.IgnoredSites {
		if on {
			ignored = append(ignored, url)
		}
	}
	sort.Strings(ignored)
	for _, url := range ignored {
		d.IgnoredSites = append(d.IgnoredSites, models.SiteRow{
			URL: url, Name: report.Sites[url], Note: prefs.SiteNotes[url],
		})
	}

	for _, url := range report.SiteOrder {
		if prefs.IgnoredSites[url] {
			continue
		}

		cid, matched := report.MatchedSites[url]
		if !matched {
			d.UnmatchedSites = append(d.UnmatchedSites, models.SiteRow{
				URL: url, Name: report.Sites[url], Note: prefs.SiteNotes[url],
			})
			continue
		}

		c := report.Customers[cid]
		d.Matched = append(d.Matched, models.MatchedRow{
			SiteURL:       url,
			CustomerID:    cid,
			Name:          c.Name,
			Email:         c.Email,
			Note:          prefs.CustomerNotes[cid],
			LifetimeTotal: c.LifetimeTotal.StringFixed(2),
			MRR:           c.MRR.StringFixed(2),
			LastPaid:      timeutil.FormatDate(c.LastPaidAt),
			Overdue:       overdue[cid],
			Ignored:       prefs.IgnoredCustomers[cid],
		})
	}

	// overdue rows first, otherwise keep site order
	sort.SliceStable(d.Matched, func(i, j int) bool {
		return d.Matched[i].Overdue && !d.Matched[j].Overdue
	})

	for _, key := range report.CustomerOrder {
		c := report.Customers[key]
		row := models.CustomerRow{
			ID:            key,
			Name:          c.Name,
			Email:         c.Email,
			Note:          prefs.CustomerNotes[key],
			LifetimeTotal: c.LifetimeTotal.StringFixed(2),
		}
		if prefs.IgnoredCustomers[key] {
			d.IgnoredCustomers = append(d.IgnoredCustomers, row)
			continue
		}
		if _, matched := report.MatchedCustomers[key]; !matched {
			d.UnmatchedCustomers = append(d.UnmatchedCustomers, row)
		}
	}

	for url := range prefs.UnlinkedSites {
		d.UnlinkedSites = append(d.UnlinkedSites, url)
	}
	sort.Strings(d.UnlinkedSites)

	return d
}
