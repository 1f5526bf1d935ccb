package ledger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lockstake/staking-ledger/internal/db"
	"github.com/lockstake/staking-ledger/internal/db/model"
	"github.com/lockstake/staking-ledger/internal/types"
)

// ValidateLockPeriod rejects a zero lock period.
func ValidateLockPeriod(lockPeriodDays uint32) error {
	if lockPeriodDays == 0 {
		return types.ErrInvalidLockPeriod.WithMessagef("lock period must be greater than zero")
	}
	return nil
}

// ValidateAPY rejects a zero rate and anything above the cap.
func ValidateAPY(apyBasisPoints uint32) error {
	if apyBasisPoints == 0 || apyBasisPoints > MaxAPYBasisPoints {
		return types.ErrInvalidAPY.WithMessagef(
			"apy must be between 1 and %d basis points, got %d", MaxAPYBasisPoints, apyBasisPoints)
	}
	return nil
}

// AddTier appends a tier to the registry and returns its index.
// Privileged.
func (s *Service) AddTier(ctx context.Context, caller string, lockPeriodDays, apyBasisPoints uint32) (int, error) {
	if err := s.requireOperator(caller); err != nil {
		return 0, err
	}
	if err := ValidateLockPeriod(lockPeriodDays); err != nil {
		return 0, err
	}
	if err := ValidateAPY(apyBasisPoints); err != nil {
		return 0, err
	}

	s.tiersMu.Lock()
	defer s.tiersMu.Unlock()

	for _, tier := range s.tiers {
		if tier.LockPeriodDays == lockPeriodDays {
			return 0, types.ErrDuplicateLockPeriod.WithMessagef(
				"a tier with lock period %d days already exists", lockPeriodDays)
		}
	}

	position := len(s.tiers)
	tierDoc := &model.TierDocument{
		Position:       position,
		LockPeriodDays: lockPeriodDays,
		ApyBasisPoints: apyBasisPoints,
	}
	if err := s.db.SaveNewTier(ctx, tierDoc); err != nil {
		if db.IsDuplicateKeyError(err) {
			return 0, types.ErrDuplicateLockPeriod
		}
		return 0, fmt.Errorf("failed to persist tier: %w", err)
	}

	s.tiers = append(s.tiers, Tier{
		LockPeriodDays: lockPeriodDays,
		ApyBasisPoints: apyBasisPoints,
	})

	log.Ctx(ctx).Info().
		Int("tier_index", position).
		Uint32("lock_period_days", lockPeriodDays).
		Uint32("apy_basis_points", apyBasisPoints).
		Msg("tier added")

	s.emit(ctx, types.EventTierAdded, types.TierAddedEvent{
		TierIndex:      position,
		LockPeriodDays: lockPeriodDays,
		ApyBasisPoints: apyBasisPoints,
	})

	return position, nil
}

// UpdateTierAPY changes the APY of the tier at index, leaving its lock
// period fixed. Open stakes are unaffected: they hold a frozen copy of
// the APY taken at creation. Privileged.
func (s *Service) UpdateTierAPY(ctx context.Context, caller string, index int, apyBasisPoints uint32) error {
	if err := s.requireOperator(caller); err != nil {
		return err
	}
	if err := ValidateAPY(apyBasisPoints); err != nil {
		return err
	}

	s.tiersMu.Lock()
	defer s.tiersMu.Unlock()

	if index < 0 || index >= len(s.tiers) {
		return types.ErrInvalidTierIndex.WithMessagef("tier index %d out of bounds", index)
	}

	if err := s.db.UpdateTierAPY(ctx, index, apyBasisPoints); err != nil {
		if db.IsNotFoundError(err) {
			return types.ErrInvalidTierIndex
		}
		return fmt.Errorf("failed to persist tier update: %w", err)
	}

	s.tiers[index].ApyBasisPoints = apyBasisPoints

	log.Ctx(ctx).Info().
		Int("tier_index", index).
		Uint32("apy_basis_points", apyBasisPoints).
		Msg("tier apy updated")

	s.emit(ctx, types.EventTierUpdated, types.TierUpdatedEvent{
		TierIndex:      index,
		LockPeriodDays: s.tiers[index].LockPeriodDays,
		ApyBasisPoints: apyBasisPoints,
	})

	return nil
}

// LookupTierAPY resolves the APY for an exact lock period match.
func (s *Service) LookupTierAPY(lockPeriodDays uint32) (uint32, error) {
	s.tiersMu.RLock()
	defer s.tiersMu.RUnlock()

	for _, tier := range s.tiers {
		if tier.LockPeriodDays == lockPeriodDays {
			return tier.ApyBasisPoints, nil
		}
	}

	return 0, types.ErrInvalidLockPeriod.WithMessagef("no tier with lock period %d days", lockPeriodDays)
}

// Tiers returns the registry in insertion order.
func (s *Service) Tiers() []Tier {
	s.tiersMu.RLock()
	defer s.tiersMu.RUnlock()

	tiers := make([]Tier, len(s.tiers))
	copy(tiers, s.tiers)
	return tiers
}
