package testutil

import (
	"context"
	"sync"

	"github.com/lockstake/staking-ledger/internal/queue"
	"github.com/lockstake/staking-ledger/internal/types"
)

// CapturedEvent is one event seen by the capturing sink.
type CapturedEvent struct {
	Type    types.EventType
	Payload any
}

// CapturingEvents is a queue.EventSink that records what it is asked to
// publish.
type CapturingEvents struct {
	mu      sync.Mutex
	events  []CapturedEvent
	PushErr error
}

var _ queue.EventSink = (*CapturingEvents)(nil)

func NewCapturingEvents() *CapturingEvents {
	return &CapturingEvents{}
}

func (c *CapturingEvents) Push(ctx context.Context, eventType types.EventType, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.PushErr != nil {
		return c.PushErr
	}
	c.events = append(c.events, CapturedEvent{Type: eventType, Payload: payload})
	return nil
}

func (c *CapturingEvents) Shutdown() {}

// Events returns a copy of the captured events in publish order.
func (c *CapturingEvents) Events() []CapturedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	events := make([]CapturedEvent, len(c.events))
	copy(events, c.events)
	return events
}

// Types returns just the captured event types in publish order.
func (c *CapturingEvents) Types() []types.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]types.EventType, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.Type)
	}
	return out
}
