package queue

import (
	"context"

	"github.com/lockstake/staking-ledger/internal/types"
)

// EventSink receives the structured events every state-changing ledger
// operation emits. Implemented by QueueManager in production and by a
// capturing fake in tests.
type EventSink interface {
	Push(ctx context.Context, eventType types.EventType, payload any) error
	Shutdown()
}
