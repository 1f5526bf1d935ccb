//go:build integration

package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockstake/staking-ledger/internal/db"
	"github.com/lockstake/staking-ledger/internal/db/model"
	"github.com/lockstake/staking-ledger/testutil"
)

func randomStakeDoc(t *testing.T) *model.StakeDocument {
	t.Helper()

	account, err := testutil.RandomAlphaNum(10)
	require.NoError(t, err)

	now := time.Now().Unix()
	return &model.StakeDocument{
		Account:        account,
		Amount:         "1000",
		StartTime:      now,
		LockEndTime:    now + 15*24*3600,
		ApyBasisPoints: 1500,
		LastClaimTime:  now,
	}
}

func TestStakes(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("save and get", func(t *testing.T) {
		doc := randomStakeDoc(t)
		require.NoError(t, testDB.SaveNewStake(ctx, doc))

		stored, err := testDB.GetStake(ctx, doc.Account)
		require.NoError(t, err)
		assert.Equal(t, doc, stored)
	})

	t.Run("one stake per account", func(t *testing.T) {
		doc := randomStakeDoc(t)
		require.NoError(t, testDB.SaveNewStake(ctx, doc))

		err := testDB.SaveNewStake(ctx, doc)
		assert.True(t, db.IsDuplicateKeyError(err))
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := testDB.GetStake(ctx, "no-such-account")
		assert.True(t, db.IsNotFoundError(err))
	})

	t.Run("update last claim time", func(t *testing.T) {
		doc := randomStakeDoc(t)
		require.NoError(t, testDB.SaveNewStake(ctx, doc))

		newClaimTime := doc.LastClaimTime + 3600
		require.NoError(t, testDB.UpdateStakeLastClaimTime(ctx, doc.Account, newClaimTime))

		stored, err := testDB.GetStake(ctx, doc.Account)
		require.NoError(t, err)
		assert.Equal(t, newClaimTime, stored.LastClaimTime)
		// everything else untouched
		assert.Equal(t, doc.Amount, stored.Amount)
		assert.Equal(t, doc.LockEndTime, stored.LockEndTime)
	})

	t.Run("update last claim time of missing stake", func(t *testing.T) {
		err := testDB.UpdateStakeLastClaimTime(ctx, "no-such-account", 1)
		assert.True(t, db.IsNotFoundError(err))
	})

	t.Run("upsert restores a deleted document", func(t *testing.T) {
		doc := randomStakeDoc(t)
		require.NoError(t, testDB.SaveNewStake(ctx, doc))
		require.NoError(t, testDB.DeleteStake(ctx, doc.Account))

		require.NoError(t, testDB.UpsertStake(ctx, doc))

		stored, err := testDB.GetStake(ctx, doc.Account)
		require.NoError(t, err)
		assert.Equal(t, doc, stored)
	})

	t.Run("delete", func(t *testing.T) {
		doc := randomStakeDoc(t)
		require.NoError(t, testDB.SaveNewStake(ctx, doc))
		require.NoError(t, testDB.DeleteStake(ctx, doc.Account))

		_, err := testDB.GetStake(ctx, doc.Account)
		assert.True(t, db.IsNotFoundError(err))
	})

	t.Run("delete missing", func(t *testing.T) {
		err := testDB.DeleteStake(ctx, "no-such-account")
		assert.True(t, db.IsNotFoundError(err))
	})

	t.Run("get all", func(t *testing.T) {
		before, err := testDB.GetAllStakes(ctx)
		require.NoError(t, err)

		doc := randomStakeDoc(t)
		require.NoError(t, testDB.SaveNewStake(ctx, doc))

		after, err := testDB.GetAllStakes(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before)+1)
	})
}
