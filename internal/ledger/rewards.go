package ledger

import (
	"context"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/lockstake/staking-ledger/internal/observability/metrics"
	"github.com/lockstake/staking-ledger/internal/types"
)

// ClaimRewards pays out the reward accrued since the last claim and
// resets the accrual clock. The clock is advanced and persisted before
// the payout so the interaction happens against committed state; a
// rejected payout rolls the clock back.
func (s *Service) ClaimRewards(ctx context.Context, name string) (reward sdkmath.Int, err error) {
	err = s.instrument("claim_rewards", func() error {
		reward, err = s.claimRewards(ctx, name)
		return err
	})
	return reward, err
}

func (s *Service) claimRewards(ctx context.Context, name string) (sdkmath.Int, error) {
	zero := sdkmath.ZeroInt()

	if err := s.requireNotPaused(); err != nil {
		return zero, err
	}

	acct := s.account(name)
	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.stake == nil {
		return zero, types.ErrNoStakeFound
	}

	now := s.now().UTC()
	elapsed, err := elapsedSeconds(acct.stake.LastClaimTime, now)
	if err != nil {
		return zero, err
	}

	reward := Accrued(acct.stake.Amount, acct.stake.ApyBasisPoints, elapsed)
	if !reward.IsPositive() {
		return zero, types.ErrNoRewardsToClaim
	}

	poolBalance, err := s.debitRewardPool(reward)
	if err != nil {
		return zero, err
	}

	prevClaimTime := acct.stake.LastClaimTime

	// effects before interactions
	acct.stake.LastClaimTime = now

	if err := s.db.UpdateStakeLastClaimTime(ctx, name, now.Unix()); err != nil {
		acct.stake.LastClaimTime = prevClaimTime
		s.creditRewardPool(reward)
		return zero, fmt.Errorf("failed to persist claim time: %w", err)
	}
	if err := s.db.SetRewardPoolBalance(ctx, poolBalance); err != nil {
		s.rollbackClaim(ctx, acct, name, prevClaimTime, reward)
		return zero, fmt.Errorf("failed to persist reward pool balance: %w", err)
	}

	if err := s.bank.Push(ctx, name, reward); err != nil {
		s.rollbackClaim(ctx, acct, name, prevClaimTime, reward)
		return zero, err
	}

	log.Ctx(ctx).Info().
		Str("account", name).
		Str("reward", reward.String()).
		Msg("rewards claimed")

	s.emit(ctx, types.EventRewardsClaimed, types.RewardsClaimedEvent{
		Account: name,
		Amount:  reward.String(),
	})

	return reward, nil
}

func (s *Service) rollbackClaim(ctx context.Context, acct *account, name string, prevClaimTime time.Time, reward sdkmath.Int) {
	acct.stake.LastClaimTime = prevClaimTime
	poolBalance := s.creditRewardPool(reward)

	if err := s.db.UpdateStakeLastClaimTime(ctx, name, prevClaimTime.Unix()); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("account", name).Msg("failed to persist claim time rollback")
		metrics.RecordRollbackFailure()
	}
	if err := s.db.SetRewardPoolBalance(ctx, poolBalance); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to persist reward pool rollback")
		metrics.RecordRollbackFailure()
	}
}

// PendingReward reports the reward accrued so far without mutating
// anything.
func (s *Service) PendingReward(name string) (sdkmath.Int, error) {
	acct := s.account(name)
	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.stake == nil {
		return sdkmath.ZeroInt(), types.ErrNoStakeFound
	}

	elapsed, err := elapsedSeconds(acct.stake.LastClaimTime, s.now().UTC())
	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	return Accrued(acct.stake.Amount, acct.stake.ApyBasisPoints, elapsed), nil
}
