package ledger

import (
	"context"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockstake/staking-ledger/internal/types"
)

func TestAddTier(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("requires operator", func(t *testing.T) {
		_, err := f.svc.AddTier(ctx, "random-caller", 30, 1000)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("rejects zero lock period", func(t *testing.T) {
		_, err := f.svc.AddTier(ctx, testOperatorKey, 0, 1000)
		assert.ErrorIs(t, err, types.ErrInvalidLockPeriod)
	})

	t.Run("rejects zero apy", func(t *testing.T) {
		_, err := f.svc.AddTier(ctx, testOperatorKey, 30, 0)
		assert.ErrorIs(t, err, types.ErrInvalidAPY)
	})

	t.Run("rejects apy above cap", func(t *testing.T) {
		_, err := f.svc.AddTier(ctx, testOperatorKey, 30, MaxAPYBasisPoints+1)
		assert.ErrorIs(t, err, types.ErrInvalidAPY)
	})

	t.Run("accepts apy at cap", func(t *testing.T) {
		index, err := f.svc.AddTier(ctx, testOperatorKey, 30, MaxAPYBasisPoints)
		assert.NoError(t, err)
		assert.Equal(t, 0, index)
	})

	t.Run("rejects duplicate lock period", func(t *testing.T) {
		_, err := f.svc.AddTier(ctx, testOperatorKey, 30, 1500)
		assert.ErrorIs(t, err, types.ErrDuplicateLockPeriod)
	})

	t.Run("assigns sequential indexes", func(t *testing.T) {
		index, err := f.svc.AddTier(ctx, testOperatorKey, 7, 500)
		require.NoError(t, err)
		assert.Equal(t, 1, index)

		index, err = f.svc.AddTier(ctx, testOperatorKey, 90, 2500)
		require.NoError(t, err)
		assert.Equal(t, 2, index)
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		tiers := f.svc.Tiers()
		require.Len(t, tiers, 3)
		assert.Equal(t, uint32(30), tiers[0].LockPeriodDays)
		assert.Equal(t, uint32(7), tiers[1].LockPeriodDays)
		assert.Equal(t, uint32(90), tiers[2].LockPeriodDays)
	})
}

func TestUpdateTierAPY(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addTier(t, 30, 1000)

	t.Run("requires operator", func(t *testing.T) {
		err := f.svc.UpdateTierAPY(ctx, "random-caller", 0, 1200)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("rejects out of bounds index", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.UpdateTierAPY(ctx, testOperatorKey, -1, 1200), types.ErrInvalidTierIndex)
		assert.ErrorIs(t, f.svc.UpdateTierAPY(ctx, testOperatorKey, 1, 1200), types.ErrInvalidTierIndex)
	})

	t.Run("rejects apy out of range", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.UpdateTierAPY(ctx, testOperatorKey, 0, 0), types.ErrInvalidAPY)
		assert.ErrorIs(t, f.svc.UpdateTierAPY(ctx, testOperatorKey, 0, MaxAPYBasisPoints+1), types.ErrInvalidAPY)
	})

	t.Run("updates the rate, lock period stays", func(t *testing.T) {
		require.NoError(t, f.svc.UpdateTierAPY(ctx, testOperatorKey, 0, 1200))

		tiers := f.svc.Tiers()
		require.Len(t, tiers, 1)
		assert.Equal(t, uint32(30), tiers[0].LockPeriodDays)
		assert.Equal(t, uint32(1200), tiers[0].ApyBasisPoints)
	})
}

func TestStakeKeepsCreationAPY(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addTier(t, 15, 1500)
	f.fundPool(t, 1000)

	require.NoError(t, f.svc.Stake(ctx, "alice", sdkmath.NewInt(1000), 15))

	// raising the tier rate afterwards must not change what alice earns
	require.NoError(t, f.svc.UpdateTierAPY(ctx, testOperatorKey, 0, 3000))

	f.advance(15 * 24 * time.Hour)
	pending, err := f.svc.PendingReward("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(6), pending.Int64())

	// a new stake picks up the new rate
	require.NoError(t, f.svc.Stake(ctx, "bob", sdkmath.NewInt(1000), 15))
	rec, ok := f.svc.StakeOf("bob")
	require.True(t, ok)
	assert.Equal(t, uint32(3000), rec.ApyBasisPoints)
}

func TestLookupTierAPY(t *testing.T) {
	f := newFixture(t)
	f.addTier(t, 15, 1500)

	apy, err := f.svc.LookupTierAPY(15)
	require.NoError(t, err)
	assert.Equal(t, uint32(1500), apy)

	_, err = f.svc.LookupTierAPY(16)
	assert.ErrorIs(t, err, types.ErrInvalidLockPeriod)
}
