package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Refresher is anything with a zero-argument forced refresh
type Refresher interface {
	RefreshNow(ctx context.Context) error
}

// RefreshScheduler calls RefreshNow on a fixed interval. Errors are logged by
// the refresher and otherwise discarded.
type RefreshScheduler struct {
	target   Refresher
	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewRefreshScheduler creates a scheduler; it does nothing until Start
func NewRefreshScheduler(target Refresher, interval time.Duration) *RefreshScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RefreshScheduler{
		target:   target,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the refresh loop. The first refresh runs one interval after start.
func (s *RefreshScheduler) Start() {
	log.Printf("[Scheduler] Report refresh every %s", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-s.stopChan:
				log.Println("[Scheduler] Stopping report refresh...")
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight refresh to finish
func (s *RefreshScheduler) Stop() {
	s.once.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

func (s *RefreshScheduler) tick() {
	_ = s.target.RefreshNow(context.Background())
}
