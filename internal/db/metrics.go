package db

import (
	"context"
	"time"

	"github.com/lockstake/staking-ledger/internal/db/model"
	"github.com/lockstake/staking-ledger/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) SaveNewStake(ctx context.Context, stakeDoc *model.StakeDocument) error {
	return d.run("SaveNewStake", func() error {
		return d.db.SaveNewStake(ctx, stakeDoc)
	})
}

func (d *DbWithMetrics) UpsertStake(ctx context.Context, stakeDoc *model.StakeDocument) error {
	return d.run("UpsertStake", func() error {
		return d.db.UpsertStake(ctx, stakeDoc)
	})
}

func (d *DbWithMetrics) UpdateStakeLastClaimTime(ctx context.Context, account string, lastClaimTime int64) error {
	return d.run("UpdateStakeLastClaimTime", func() error {
		return d.db.UpdateStakeLastClaimTime(ctx, account, lastClaimTime)
	})
}

func (d *DbWithMetrics) DeleteStake(ctx context.Context, account string) error {
	return d.run("DeleteStake", func() error {
		return d.db.DeleteStake(ctx, account)
	})
}

func (d *DbWithMetrics) GetStake(ctx context.Context, account string) (result *model.StakeDocument, err error) {
	//nolint:errcheck
	d.run("GetStake", func() error {
		result, err = d.db.GetStake(ctx, account)
		return err
	})

	return
}

func (d *DbWithMetrics) GetAllStakes(ctx context.Context) (result []model.StakeDocument, err error) {
	//nolint:errcheck
	d.run("GetAllStakes", func() error {
		result, err = d.db.GetAllStakes(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) SaveNewTier(ctx context.Context, tierDoc *model.TierDocument) error {
	return d.run("SaveNewTier", func() error {
		return d.db.SaveNewTier(ctx, tierDoc)
	})
}

func (d *DbWithMetrics) UpdateTierAPY(ctx context.Context, position int, apyBasisPoints uint32) error {
	return d.run("UpdateTierAPY", func() error {
		return d.db.UpdateTierAPY(ctx, position, apyBasisPoints)
	})
}

func (d *DbWithMetrics) GetAllTiers(ctx context.Context) (result []model.TierDocument, err error) {
	//nolint:errcheck
	d.run("GetAllTiers", func() error {
		result, err = d.db.GetAllTiers(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) GetLedgerState(ctx context.Context) (result *model.LedgerStateDocument, err error) {
	//nolint:errcheck
	d.run("GetLedgerState", func() error {
		result, err = d.db.GetLedgerState(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) SetPaused(ctx context.Context, paused bool) error {
	return d.run("SetPaused", func() error {
		return d.db.SetPaused(ctx, paused)
	})
}

func (d *DbWithMetrics) SetRewardPoolBalance(ctx context.Context, balance string) error {
	return d.run("SetRewardPoolBalance", func() error {
		return d.db.SetRewardPoolBalance(ctx, balance)
	})
}

func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
