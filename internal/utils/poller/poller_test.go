package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollerRunsUntilStopped(t *testing.T) {
	var polls atomic.Int32
	p := NewPoller(5*time.Millisecond, func(ctx context.Context) error {
		polls.Add(1)
		return nil
	})

	done := make(chan struct{})
	go func() {
		p.Start(context.Background())
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return polls.Load() >= 3
	}, time.Second, time.Millisecond)

	p.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(time.Millisecond, func(ctx context.Context) error {
		return nil
	})

	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
}
