package health

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReportState describes the in-process report cache
type ReportState interface {
	CacheState() (runID string, generatedAt time.Time, ok bool)
}

type HealthChecker struct {
	db          Pinger
	redisHealth func(ctx context.Context) bool
	reports     ReportState
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds dependency and host information for operators
type DetailedStatus struct {
	HealthStatus
	Redis  string      `json:"redis"`
	Report ReportCache `json:"report"`
	Host   HostStats   `json:"host"`
}

type ReportCache struct {
	Cached      bool       `json:"cached"`
	RunID       string     `json:"run_id,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
}

// NewHealthChecker builds a checker. redisHealth and reports may be nil.
func NewHealthChecker(db Pinger, redisHealth func(ctx context.Context) bool, reports ReportState) *HealthChecker {
	return &HealthChecker{db: db, redisHealth: redisHealth, reports: reports}
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
	}
}

// CheckDetailed never fails on Redis: the report cache degrades to in-process only
func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	out := DetailedStatus{HealthStatus: h.CheckBasic(ctx), Redis: "disabled"}

	if h.redisHealth != nil {
		rctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if h.redisHealth(rctx) {
			out.Redis = "healthy"
		} else {
			out.Redis = "unavailable"
			if out.Status == "healthy" {
				out.Status = "degraded"
			}
		}
		cancel()
	}

	if h.reports != nil {
		if runID, at, ok := h.reports.CacheState(); ok {
			out.Report = ReportCache{Cached: true, RunID: runID, GeneratedAt: &at}
		}
	}

	out.Host = collectHostStats()
	return out
}

func (h *HealthChecker) checkDatabase(ctx context.Context) DatabaseHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

// collectHostStats samples the current node. Errors leave fields zeroed.
func collectHostStats() HostStats {
	var stats HostStats

	if percents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsed = formatBytes(vm.Used)
		stats.MemoryTotal = formatBytes(vm.Total)
	}

	return stats
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}
