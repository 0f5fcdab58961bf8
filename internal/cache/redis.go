package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"payments-monitor/internal/models"

	"github.com/redis/go-redis/v9"
)

// Report cache keys
const (
	ReportKey      = "reports:reconciliation"
	ReportRunIDKey = "reports:reconciliation:run_id"
)

var client *redis.Client

// Init connects to Redis. On failure the package falls back to a nil client
// and every cache call becomes a no-op.
func Init(addr, password string, db int) error {
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, nil when Redis is unavailable
func GetClient() *redis.Client {
	return client
}

// Close releases the connection pool
func Close() {
	if client != nil {
		client.Close()
	}
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	return ping(client)
}

func ping(c *redis.Client) bool {
	if c == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.Ping(ctx).Err() == nil
}

// ============================================
// Report Snapshot Store
// ============================================

// ReportStore mirrors the reconciliation report into Redis so replicas can
// share one pull. A nil client makes every method a no-op.
type ReportStore struct {
	client *redis.Client
	key    string
	runKey string
}

// NewReportStore creates a store bound to the given client
func NewReportStore(c *redis.Client) *ReportStore {
	return &ReportStore{client: c, key: ReportKey, runKey: ReportRunIDKey}
}

// Load returns the mirrored report if present
func (s *ReportStore) Load(ctx context.Context) (*models.Report, bool) {
	if s.client == nil {
		return nil, false
	}
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[Redis] Failed to read report snapshot: %v", err)
		}
		return nil, false
	}

	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		log.Printf("[Redis] Discarding unreadable report snapshot: %v", err)
		return nil, false
	}
	return &report, true
}

// Save stores the report with a TTL
func (s *ReportStore) Save(ctx context.Context, report *models.Report, ttl time.Duration) {
	if s.client == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		log.Printf("[Redis] Failed to encode report snapshot: %v", err)
		return
	}
	// the run id is written alongside so replicas can check freshness cheaply
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key, data, ttl)
		pipe.Set(ctx, s.runKey, report.RunID, ttl)
		return nil
	})
	if err != nil {
		log.Printf("[Redis] Failed to store report snapshot: %v", err)
	}
}

// CurrentRunID returns the run id of the mirrored report. shared is false when
// there is no usable Redis, in which case the caller's own copy is authoritative.
// A missing entry returns ("", true).
func (s *ReportStore) CurrentRunID(ctx context.Context) (runID string, shared bool) {
	if s.client == nil {
		return "", false
	}
	runID, err := s.client.Get(ctx, s.runKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", true
	}
	if err != nil {
		log.Printf("[Redis] Failed to read report run id: %v", err)
		return "", false
	}
	return runID, true
}

// Delete drops the mirrored report
func (s *ReportStore) Delete(ctx context.Context) {
	if s.client == nil {
		return
	}
	if err := s.client.Del(ctx, s.key, s.runKey).Err(); err != nil {
		log.Printf("[Redis] Failed to delete report snapshot: %v", err)
	}
}

// Healthy reports whether the backing client answers a ping
func (s *ReportStore) Healthy() bool {
	return ping(s.client)
}
