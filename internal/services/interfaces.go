package services

import (
	"context"
	"time"

	"payments-monitor/internal/models"
)

// PlatformClient lists billing records. Each call returns the complete,
// fully paginated result or an error.
type PlatformClient interface {
	ListCustomers(ctx context.Context) ([]models.CustomerRecord, error)
	ListCharges(ctx context.Context) ([]models.Charge, error)
	ListOpenInvoices(ctx context.Context) ([]models.Invoice, error)
}

// PlatformClientFactory builds a client for a secret key
type PlatformClientFactory func(secret string) PlatformClient

// SiteRegistry lists the managed websites
type SiteRegistry interface {
	ListManagedSites(ctx context.Context) ([]models.ManagedSite, error)
}

// PreferenceStore is durable key/value option storage. Values are JSON encoded.
type PreferenceStore interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// ReportMirror is a shared copy of the report (Redis in production).
// CurrentRunID reports shared=false when no mirror is reachable.
type ReportMirror interface {
	Load(ctx context.Context) (*models.Report, bool)
	Save(ctx context.Context, report *models.Report, ttl time.Duration)
	Delete(ctx context.Context)
	CurrentRunID(ctx context.Context) (runID string, shared bool)
}

// EventPublisher pushes report lifecycle events to live clients
type EventPublisher interface {
	Publish(eventType string, payload any)
}
