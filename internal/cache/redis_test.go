package cache

import (
	"context"
	"testing"
	"time"

	"payments-monitor/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ReportStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { c.Close() })
	return NewReportStore(c), mr
}

func sampleReport() *models.Report {
	at := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return &models.Report{
		RunID:       "run-1",
		GeneratedAt: at,
		ExpiresAt:   at.Add(15 * time.Minute),
		Customers: map[string]models.MergedCustomer{
			"a@x.com": {ID: "a@x.com", Name: "A Co", Email: "a@x.com", LifetimeTotal: decimal.New(5000, -2), MRR: decimal.RequireFromString("12.5"), LastPaidAt: at},
		},
		CustomerOrder:    []string{"a@x.com"},
		OverdueIDs:       map[string]bool{"a@x.com": true},
		Sites:            map[string]string{"https://x.com": "X"},
		SiteOrder:        []string{"https://x.com"},
		MatchedSites:     map[string]string{"https://x.com": "a@x.com"},
		MatchedCustomers: map[string][]string{"a@x.com": {"https://x.com"}},
	}
}

func TestReportStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	_, ok := store.Load(ctx)
	assert.False(t, ok)

	store.Save(ctx, sampleReport(), 15*time.Minute)
	assert.Equal(t, 15*time.Minute, mr.TTL(ReportKey))

	got, ok := store.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "run-1", got.RunID)
	assert.True(t, got.Customers["a@x.com"].LifetimeTotal.Equal(decimal.RequireFromString("50")))
	assert.True(t, got.IsOverdue("a@x.com"))
	assert.Equal(t, []string{"https://x.com"}, got.MatchedCustomers["a@x.com"])
}

func TestReportStoreExpiresWithTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	store.Save(ctx, sampleReport(), time.Minute)
	mr.FastForward(2 * time.Minute)

	_, ok := store.Load(ctx)
	assert.False(t, ok)
}

func TestReportStoreDeleteAndCorruptData(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	store.Save(ctx, sampleReport(), time.Minute)
	store.Delete(ctx)
	assert.False(t, mr.Exists(ReportKey))

	require.NoError(t, mr.Set(ReportKey, "{not json"))
	_, ok := store.Load(ctx)
	assert.False(t, ok)
}

func TestReportStoreNilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewReportStore(nil)

	store.Save(ctx, sampleReport(), time.Minute)
	store.Delete(ctx)
	_, ok := store.Load(ctx)
	assert.False(t, ok)
	assert.False(t, store.Healthy())
}

func TestReportStoreCurrentRunID(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	runID, shared := store.CurrentRunID(ctx)
	assert.True(t, shared)
	assert.Empty(t, runID)

	store.Save(ctx, sampleReport(), 15*time.Minute)
	runID, shared = store.CurrentRunID(ctx)
	assert.True(t, shared)
	assert.Equal(t, "run-1", runID)
	assert.Equal(t, 15*time.Minute, mr.TTL(ReportRunIDKey))

	store.Delete(ctx)
	runID, shared = store.CurrentRunID(ctx)
	assert.True(t, shared)
	assert.Empty(t, runID)

	_, shared = NewReportStore(nil).CurrentRunID(ctx)
	assert.False(t, shared)
}
