package ledger

import (
	"context"
	"crypto/subtle"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/lockstake/staking-ledger/internal/types"
)

func (s *Service) requireOperator(caller string) error {
	if subtle.ConstantTimeCompare([]byte(caller), []byte(s.cfg.Ledger.OperatorKey)) != 1 {
		return types.ErrUnauthorized
	}
	return nil
}

func (s *Service) requireNotPaused() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.paused {
		return types.ErrLedgerPaused
	}
	return nil
}

// Paused reports the pause flag. Only stake and claimRewards honor it:
// unstake and emergencyExit stay available so a pause can never trap
// principal.
func (s *Service) Paused() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.paused
}

func (s *Service) Pause(ctx context.Context, caller string) error {
	return s.setPaused(ctx, caller, true)
}

func (s *Service) Unpause(ctx context.Context, caller string) error {
	return s.setPaused(ctx, caller, false)
}

func (s *Service) setPaused(ctx context.Context, caller string, paused bool) error {
	if err := s.requireOperator(caller); err != nil {
		return err
	}

	s.stateMu.Lock()
	prev := s.paused
	s.paused = paused
	s.stateMu.Unlock()

	if prev == paused {
		return nil
	}

	if err := s.db.SetPaused(ctx, paused); err != nil {
		s.stateMu.Lock()
		s.paused = prev
		s.stateMu.Unlock()
		return fmt.Errorf("failed to persist pause flag: %w", err)
	}

	log.Ctx(ctx).Info().Bool("paused", paused).Msg("ledger pause flag changed")

	eventType := types.EventLedgerUnpaused
	if paused {
		eventType = types.EventLedgerPaused
	}
	s.emit(ctx, eventType, types.PauseStateChangedEvent{Paused: paused})

	return nil
}

// RecoverAsset moves a foreign-asset balance held by the ledger to the
// given account. The staking asset itself is rejected unconditionally:
// allowing it would let the operator drain staked principal.
func (s *Service) RecoverAsset(ctx context.Context, caller, asset, to string, amount sdkmath.Int) error {
	return s.instrument("recover_asset", func() error {
		if err := s.requireOperator(caller); err != nil {
			return err
		}
		if asset == s.cfg.Ledger.StakingAsset {
			return types.ErrRecoverStakingAsset
		}
		if err := validateAmount(amount); err != nil {
			return err
		}

		if err := s.bank.Recover(ctx, asset, to, amount); err != nil {
			return err
		}

		log.Ctx(ctx).Info().
			Str("asset", asset).
			Str("to", to).
			Str("amount", amount.String()).
			Msg("recovered foreign asset")

		s.emit(ctx, types.EventAssetRecovered, types.AssetRecoveredEvent{
			Asset:  asset,
			To:     to,
			Amount: amount.String(),
		})

		return nil
	})
}
