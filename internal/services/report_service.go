package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"payments-monitor/internal/metrics"
	"payments-monitor/internal/models"
	"payments-monitor/internal/reconcile"

	"github.com/google/uuid"
)

// Refresh triggers, used as metric labels
const (
	TriggerRequest   = "request"
	TriggerForced    = "forced"
	TriggerScheduled = "scheduled"
)

// Report events published to live clients
const (
	EventReportRefreshed   = "report_refreshed"
	EventReportInvalidated = "report_invalidated"
)

// ReportConfig holds cache and classification settings
type ReportConfig struct {
	CacheTTL     time.Duration
	OverdueDays  int
	BuildTimeout time.Duration
}

// DefaultReportConfig mirrors the documented defaults
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		CacheTTL:     15 * time.Minute,
		OverdueDays:  30,
		BuildTimeout: 300 * time.Second,
	}
}

// ReportService owns the cached reconciliation report. The in-process slot
// serves reads while its run id matches the mirror; the mirror lets replicas
// share one pull and see each other's invalidations.
type ReportService struct {
	newClient PlatformClientFactory
	sites     SiteRegistry
	store     PreferenceStore
	mirror    ReportMirror
	secrets   *SecretResolver
	events    EventPublisher
	cfg       ReportConfig
	now       func() time.Time

	mu      sync.RWMutex
	current *models.Report
}

func NewReportService(
	newClient PlatformClientFactory,
	sites SiteRegistry,
	store PreferenceStore,
	mirror ReportMirror,
	secrets *SecretResolver,
	cfg ReportConfig,
) *ReportService {
	return &ReportService{
		newClient: newClient,
		sites:     sites,
		store:     store,
		mirror:    mirror,
		secrets:   secrets,
		cfg:       cfg,
		now:       time.Now,
	}
}

// SetEventPublisher wires live notifications (optional)
func (s *ReportService) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// SetClock overrides the time source
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// GetReport returns the cached report unless it is missing, expired or
// forceRefresh is set, in which case it performs a full pull. A failed rebuild
// never touches the cache and a failed forced call never falls back to stale data.
func (s *ReportService) GetReport(ctx context.Context, secret string, forceRefresh bool) (*models.Report, error) {
	trigger := TriggerRequest
	if forceRefresh {
		trigger = TriggerForced
	}
	return s.getReport(ctx, secret, forceRefresh, trigger)
}

// RefreshNow forces a rebuild with the configured secret. It is the entry point
// for the scheduler; the result is only logged.
func (s *ReportService) RefreshNow(ctx context.Context) error {
	secret := s.secrets.StripeSecret(ctx)
	if secret == "" {
		log.Println("[ReportService] Scheduled refresh skipped: no Stripe secret configured")
		return reconcile.ErrMissingSecret
	}
	if _, err := s.getReport(ctx, secret, true, TriggerScheduled); err != nil {
		log.Printf("[ReportService] Scheduled refresh failed: %v", err)
		return err
	}
	return nil
}

// InvalidateCache drops the local report and the mirrored copy. Other replicas
// notice the missing run id on their next read and stop serving their copy.
func (s *ReportService) InvalidateCache(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.mirror.Delete(context.WithoutCancel(ctx))

	if s.events != nil {
		s.events.Publish(EventReportInvalidated, nil)
	}
}

// Cached returns the current unexpired report without triggering a pull
func (s *ReportService) Cached() (*models.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.Expired(s.now()) {
		return nil, false
	}
	return s.current, true
}

// CacheState summarizes the cached report for health checks
func (s *ReportService) CacheState() (string, time.Time, bool) {
	report, ok := s.Cached()
	if !ok {
		return "", time.Time{}, false
	}
	return report.RunID, report.GeneratedAt, true
}

func (s *ReportService) getReport(ctx context.Context, secret string, force bool, trigger string) (*models.Report, error) {
	if secret == "" {
		return nil, reconcile.ErrMissingSecret
	}

	if !force {
		if report, ok := s.Cached(); ok && s.stillShared(ctx, report) {
			metrics.ReportCacheLookups.WithLabelValues("hit").Inc()
			return report, nil
		}
		if report, ok := s.mirror.Load(ctx); ok && !report.Expired(s.now()) {
			metrics.ReportCacheLookups.WithLabelValues("shared_hit").Inc()
			s.install(report)
			return report, nil
		}
		metrics.ReportCacheLookups.WithLabelValues("miss").Inc()
	}

	report, err := s.rebuild(ctx, secret)
	if err != nil {
		metrics.ReportRefreshTotal.WithLabelValues(trigger, "error").Inc()
		return nil, err
	}
	metrics.ReportRefreshTotal.WithLabelValues(trigger, "success").Inc()

	s.install(report)
	s.mirror.Save(context.WithoutCancel(ctx), report, s.cfg.CacheTTL)

	if s.events != nil {
		s.events.Publish(EventReportRefreshed, map[string]any{
			"run_id":       report.RunID,
			"generated_at": report.GeneratedAt,
		})
	}
	return report, nil
}

// stillShared reports whether the local copy is still the one other replicas
// see. An invalidation or newer pull elsewhere replaces or removes the mirrored
// run id. Without a reachable mirror the local copy is trusted.
func (s *ReportService) stillShared(ctx context.Context, report *models.Report) bool {
	runID, shared := s.mirror.CurrentRunID(ctx)
	if !shared || runID == report.RunID {
		return true
	}
	metrics.ReportCacheLookups.WithLabelValues("superseded").Inc()
	return false
}

func (s *ReportService) install(report *models.Report) {
	s.mu.Lock()
	s.current = report
	s.mu.Unlock()
}

// rebuild performs the full sequential pull. It is detached from the caller's
// cancellation and bounded only by the build timeout.
func (s *ReportService) rebuild(parent context.Context, secret string) (*models.Report, error) {
	runID := uuid.NewString()
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.cfg.BuildTimeout)
	defer cancel()

	log.Printf("[ReportService] Rebuild %s started", runID)

	in, err := s.pull(ctx, secret)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[ReportService] Rebuild %s aborted after %s: %v", runID, s.cfg.BuildTimeout, err)
		} else {
			log.Printf("[ReportService] Rebuild %s failed: %v", runID, err)
		}
		return nil, err
	}

	now := s.now()
	report := reconcile.Build(in, reconcile.Options{
		OverdueDays: s.cfg.OverdueDays,
		Now:         now,
	})
	report.RunID = runID
	report.ExpiresAt = now.Add(s.cfg.CacheTTL)

	elapsed := time.Since(start)
	metrics.ReportRefreshDuration.Observe(elapsed.Seconds())
	metrics.ReportCustomers.Set(float64(len(report.Customers)))
	metrics.ReportOverdueCustomers.Set(float64(len(report.OverdueIDs)))
	metrics.ReportUnmatchedSites.Set(float64(len(report.UnmatchedSites())))

	log.Printf("[ReportService] Rebuild %s done in %s: %d customers, %d overdue, %d/%d sites matched",
		runID, elapsed.Round(time.Millisecond), len(report.Customers), len(report.OverdueIDs),
		len(report.MatchedSites), len(report.Sites))

	return report, nil
}

func (s *ReportService) pull(ctx context.Context, secret string) (reconcile.Input, error) {
	var in reconcile.Input
	client := s.newClient(secret)

	customers, err := client.ListCustomers(ctx)
	if err != nil {
		return in, &reconcile.FetchError{Op: "customers", Err: err}
	}
	charges, err := client.ListCharges(ctx)
	if err != nil {
		return in, &reconcile.FetchError{Op: "charges", Err: err}
	}
	invoices, err := client.ListOpenInvoices(ctx)
	if err != nil {
		return in, &reconcile.FetchError{Op: "invoices", Err: err}
	}
	sites, err := s.sites.ListManagedSites(ctx)
	if err != nil {
		return in, &reconcile.FetchError{Op: "sites", Err: err}
	}
	prefs, err := LoadPreferences(ctx, s.store)
	if err != nil {
		return in, &reconcile.FetchError{Op: "preferences", Err: err}
	}

	in = reconcile.Input{
		Customers: customers,
		Charges:   charges,
		Invoices:  invoices,
		Sites:     sites,
		Manual:    prefs.ManualMapping,
		Unlinked:  prefs.UnlinkedSites,
	}
	return in, nil
}
