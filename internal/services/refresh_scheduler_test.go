package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingRefresher struct {
	n   atomic.Int32
	err error
}

func (c *countingRefresher) RefreshNow(ctx context.Context) error {
	c.n.Add(1)
	return c.err
}

func TestRefreshSchedulerTicks(t *testing.T) {
	r := &countingRefresher{err: errors.New("ignored")}
	s := NewRefreshScheduler(r, 10*time.Millisecond)

	s.Start()
	assert.Eventually(t, func() bool { return r.n.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	stopped := r.n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, r.n.Load())
}

func TestRefreshSchedulerDefaultsInterval(t *testing.T) {
	s := NewRefreshScheduler(&countingRefresher{}, 0)
	assert.Equal(t, time.Hour, s.interval)
}
