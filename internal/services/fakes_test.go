package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"payments-monitor/internal/models"
)

type fakePlatform struct {
	mu        sync.Mutex
	calls     int
	secrets   []string
	customers []models.CustomerRecord
	charges   []models.Charge
	invoices  []models.Invoice
	err       error
	block     bool
}

func (f *fakePlatform) factory(secret string) PlatformClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secrets = append(f.secrets, secret)
	return f
}

func (f *fakePlatform) ListCustomers(ctx context.Context) ([]models.CustomerRecord, error) {
	f.mu.Lock()
	f.calls++
	block, err := f.block, f.err
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return f.customers, nil
}

func (f *fakePlatform) ListCharges(ctx context.Context) ([]models.Charge, error) {
	return f.charges, nil
}

func (f *fakePlatform) ListOpenInvoices(ctx context.Context) ([]models.Invoice, error) {
	return f.invoices, nil
}

func (f *fakePlatform) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakePlatform) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeSites struct {
	sites []models.ManagedSite
	err   error
}

func (f *fakeSites) ListManagedSites(ctx context.Context) ([]models.ManagedSite, error) {
	return f.sites, f.err
}

// memStore is an in-memory PreferenceStore with the same JSON semantics as the
// Postgres repository
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type nopMirror struct{}

func (nopMirror) Load(ctx context.Context) (*models.Report, bool)                  { return nil, false }
func (nopMirror) Save(ctx context.Context, report *models.Report, ttl time.Duration) {}
func (nopMirror) Delete(ctx context.Context)                                       {}
func (nopMirror) CurrentRunID(ctx context.Context) (string, bool)                  { return "", false }

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(eventType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

// clock is a settable time source
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
