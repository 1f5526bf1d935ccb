//go:build integration

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockstake/staking-ledger/internal/db"
	"github.com/lockstake/staking-ledger/internal/db/model"
)

func TestTiers(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("save and list in insertion order", func(t *testing.T) {
		docs := []*model.TierDocument{
			{Position: 0, LockPeriodDays: 15, ApyBasisPoints: 1500},
			{Position: 1, LockPeriodDays: 30, ApyBasisPoints: 2200},
			{Position: 2, LockPeriodDays: 90, ApyBasisPoints: 3000},
		}
		for _, doc := range docs {
			require.NoError(t, testDB.SaveNewTier(ctx, doc))
		}

		tiers, err := testDB.GetAllTiers(ctx)
		require.NoError(t, err)
		require.Len(t, tiers, 3)
		for i, doc := range docs {
			assert.Equal(t, *doc, tiers[i])
		}
	})

	t.Run("lock period is unique", func(t *testing.T) {
		err := testDB.SaveNewTier(ctx, &model.TierDocument{
			Position:       3,
			LockPeriodDays: 15,
			ApyBasisPoints: 500,
		})
		assert.True(t, db.IsDuplicateKeyError(err))
	})

	t.Run("update apy", func(t *testing.T) {
		require.NoError(t, testDB.UpdateTierAPY(ctx, 1, 1800))

		tiers, err := testDB.GetAllTiers(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint32(1800), tiers[1].ApyBasisPoints)
		assert.Equal(t, uint32(30), tiers[1].LockPeriodDays)
	})

	t.Run("update missing position", func(t *testing.T) {
		err := testDB.UpdateTierAPY(ctx, 42, 1800)
		assert.True(t, db.IsNotFoundError(err))
	})
}
