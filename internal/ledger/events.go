package ledger

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/lockstake/staking-ledger/internal/observability/metrics"
	"github.com/lockstake/staking-ledger/internal/types"
)

// emit publishes an event after a committed state change. Emission is
// best effort: a publish failure is logged and counted, never surfaced
// to the caller, because the ledger has already committed.
func (s *Service) emit(ctx context.Context, eventType types.EventType, payload any) {
	if s.events == nil {
		return
	}

	if err := s.events.Push(ctx, eventType, payload); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("event_type", string(eventType)).
			Msg("failed to publish event")
		metrics.RecordQueueSendError()
	}
}
