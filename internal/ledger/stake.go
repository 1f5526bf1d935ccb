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

// Stake locks amount for the tier matching lockPeriodDays. The account
// must be idle. Funds are pulled only after every validation has
// passed, so a doomed operation never moves money.
func (s *Service) Stake(ctx context.Context, name string, amount sdkmath.Int, lockPeriodDays uint32) error {
	return s.instrument("stake", func() error {
		return s.stake(ctx, name, amount, lockPeriodDays)
	})
}

func (s *Service) stake(ctx context.Context, name string, amount sdkmath.Int, lockPeriodDays uint32) error {
	if err := s.requireNotPaused(); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	apyBasisPoints, err := s.LookupTierAPY(lockPeriodDays)
	if err != nil {
		return err
	}

	acct := s.account(name)
	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.stake != nil {
		return types.ErrExistingStakeFound
	}

	if err := s.bank.Pull(ctx, name, amount); err != nil {
		return err
	}

	now := s.now().UTC()
	// computed in unix seconds: a duration in nanoseconds overflows
	// int64 for lock periods past ~106751 days, which the tier
	// registry accepts
	lockEnd := time.Unix(now.Unix()+int64(lockPeriodDays)*secondsPerDay, 0).UTC()
	rec := &StakeRecord{
		Amount:         amount,
		StartTime:      now,
		LockEndTime:    lockEnd,
		ApyBasisPoints: apyBasisPoints,
		LastClaimTime:  now,
	}

	if err := s.db.SaveNewStake(ctx, newStakeDocument(name, rec)); err != nil {
		s.refund(ctx, name, amount)
		return fmt.Errorf("failed to persist stake: %w", err)
	}

	acct.stake = rec
	s.addTotalStaked(amount)

	log.Ctx(ctx).Info().
		Str("account", name).
		Str("amount", amount.String()).
		Uint32("lock_period_days", lockPeriodDays).
		Uint32("apy_basis_points", apyBasisPoints).
		Msg("stake opened")

	s.emit(ctx, types.EventStakeOpened, types.StakeOpenedEvent{
		Account:        name,
		Amount:         amount.String(),
		LockPeriodDays: lockPeriodDays,
		ApyBasisPoints: apyBasisPoints,
	})

	return nil
}

// Unstake closes an unlocked stake, paying out principal plus the final
// accrued reward. The record is deleted and totals adjusted before any
// push; a rejected push restores the snapshot so the operation is
// all-or-nothing. Deliberately not gated on pause.
func (s *Service) Unstake(ctx context.Context, name string) (principal, reward sdkmath.Int, err error) {
	err = s.instrument("unstake", func() error {
		principal, reward, err = s.unstake(ctx, name)
		return err
	})
	return principal, reward, err
}

func (s *Service) unstake(ctx context.Context, name string) (sdkmath.Int, sdkmath.Int, error) {
	zero := sdkmath.ZeroInt()

	acct := s.account(name)
	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.stake == nil {
		return zero, zero, types.ErrNoStakeFound
	}

	now := s.now().UTC()
	if !acct.stake.Unlocked(now) {
		return zero, zero, types.ErrStakeStillLocked.WithMessagef(
			"stake unlocks at %s", acct.stake.LockEndTime.Format(time.RFC3339))
	}

	elapsed, err := elapsedSeconds(acct.stake.LastClaimTime, now)
	if err != nil {
		return zero, zero, err
	}
	reward := Accrued(acct.stake.Amount, acct.stake.ApyBasisPoints, elapsed)

	poolBalance := ""
	if reward.IsPositive() {
		poolBalance, err = s.debitRewardPool(reward)
		if err != nil {
			return zero, zero, err
		}
	}

	snapshot := *acct.stake

	// effects before interactions
	acct.stake = nil
	s.subTotalStaked(snapshot.Amount)

	if err := s.db.DeleteStake(ctx, name); err != nil {
		s.restoreStake(ctx, acct, name, &snapshot, reward)
		return zero, zero, fmt.Errorf("failed to persist unstake: %w", err)
	}
	if reward.IsPositive() {
		if err := s.db.SetRewardPoolBalance(ctx, poolBalance); err != nil {
			s.restoreStake(ctx, acct, name, &snapshot, reward)
			return zero, zero, fmt.Errorf("failed to persist reward pool balance: %w", err)
		}
	}

	if err := s.bank.Push(ctx, name, snapshot.Amount); err != nil {
		s.restoreStake(ctx, acct, name, &snapshot, reward)
		return zero, zero, err
	}
	if reward.IsPositive() {
		if err := s.bank.Push(ctx, name, reward); err != nil {
			// principal already moved; claw it back before restoring
			s.clawBack(ctx, name, snapshot.Amount)
			s.restoreStake(ctx, acct, name, &snapshot, reward)
			return zero, zero, err
		}
	}

	log.Ctx(ctx).Info().
		Str("account", name).
		Str("amount", snapshot.Amount.String()).
		Str("reward", reward.String()).
		Msg("stake closed")

	s.emit(ctx, types.EventUnstaked, types.UnstakedEvent{
		Account: name,
		Amount:  snapshot.Amount.String(),
		Reward:  reward.String(),
	})

	return snapshot.Amount, reward, nil
}

// EmergencyExit returns principal only, regardless of lock state,
// forfeiting any unclaimed reward. The reward is not even computed.
// Deliberately not gated on pause.
func (s *Service) EmergencyExit(ctx context.Context, name string) (principal sdkmath.Int, err error) {
	err = s.instrument("emergency_exit", func() error {
		principal, err = s.emergencyExit(ctx, name)
		return err
	})
	return principal, err
}

func (s *Service) emergencyExit(ctx context.Context, name string) (sdkmath.Int, error) {
	zero := sdkmath.ZeroInt()

	acct := s.account(name)
	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.stake == nil {
		return zero, types.ErrNoStakeFound
	}

	snapshot := *acct.stake

	acct.stake = nil
	s.subTotalStaked(snapshot.Amount)

	if err := s.db.DeleteStake(ctx, name); err != nil {
		s.restoreStake(ctx, acct, name, &snapshot, zero)
		return zero, fmt.Errorf("failed to persist emergency exit: %w", err)
	}

	if err := s.bank.Push(ctx, name, snapshot.Amount); err != nil {
		s.restoreStake(ctx, acct, name, &snapshot, zero)
		return zero, err
	}

	log.Ctx(ctx).Info().
		Str("account", name).
		Str("amount", snapshot.Amount.String()).
		Msg("emergency exit")

	s.emit(ctx, types.EventEmergencyExited, types.EmergencyExitedEvent{
		Account: name,
		Amount:  snapshot.Amount.String(),
	})

	return snapshot.Amount, nil
}

// FundPool pulls amount from the caller into the tracked reward pool.
// Callable by anyone and not gated on pause.
func (s *Service) FundPool(ctx context.Context, name string, amount sdkmath.Int) error {
	return s.instrument("fund_pool", func() error {
		return s.fundPool(ctx, name, amount)
	})
}

func (s *Service) fundPool(ctx context.Context, name string, amount sdkmath.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	if err := s.bank.Pull(ctx, name, amount); err != nil {
		return err
	}

	poolBalance := s.creditRewardPool(amount)
	if err := s.db.SetRewardPoolBalance(ctx, poolBalance); err != nil {
		s.debitPoolForRollback(amount)
		s.refund(ctx, name, amount)
		return fmt.Errorf("failed to persist reward pool balance: %w", err)
	}

	log.Ctx(ctx).Info().
		Str("account", name).
		Str("amount", amount.String()).
		Msg("reward pool funded")

	s.emit(ctx, types.EventPoolFunded, types.PoolFundedEvent{
		Account: name,
		Amount:  amount.String(),
	})

	return nil
}

// restoreStake puts the pre-operation snapshot back, in memory and in
// the database. A failed restore persist leaves memory correct and is
// surfaced through logs and the rollback failure counter; the document
// re-converges on the next successful operation for the account.
func (s *Service) restoreStake(ctx context.Context, acct *account, name string, snapshot *StakeRecord, reward sdkmath.Int) {
	rec := *snapshot
	acct.stake = &rec
	s.addTotalStaked(snapshot.Amount)

	poolBalance := ""
	if reward.IsPositive() {
		poolBalance = s.creditRewardPool(reward)
	}

	if err := s.db.UpsertStake(ctx, newStakeDocument(name, &rec)); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("account", name).Msg("failed to persist stake rollback")
		metrics.RecordRollbackFailure()
	}
	if poolBalance != "" {
		if err := s.db.SetRewardPoolBalance(ctx, poolBalance); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to persist reward pool rollback")
			metrics.RecordRollbackFailure()
		}
	}
}

func (s *Service) debitPoolForRollback(amount sdkmath.Int) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.rewardPool = s.rewardPool.Sub(amount)
}

// refund pushes already-pulled funds back after a failed commit.
func (s *Service) refund(ctx context.Context, name string, amount sdkmath.Int) {
	if err := s.bank.Push(ctx, name, amount); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("account", name).
			Str("amount", amount.String()).
			Msg("failed to refund pulled funds")
		metrics.RecordRollbackFailure()
	}
}

// clawBack pulls back a payout whose sibling transfer failed.
func (s *Service) clawBack(ctx context.Context, name string, amount sdkmath.Int) {
	if err := s.bank.Pull(ctx, name, amount); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("account", name).
			Str("amount", amount.String()).
			Msg("failed to claw back principal after rejected reward push")
		metrics.RecordRollbackFailure()
	}
}
