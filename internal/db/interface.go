package db

import (
	"context"

	"github.com/lockstake/staking-ledger/internal/db/model"
)

type DbInterface interface {
	Ping(ctx context.Context) error

	SaveNewStake(ctx context.Context, stakeDoc *model.StakeDocument) error
	UpsertStake(ctx context.Context, stakeDoc *model.StakeDocument) error
	UpdateStakeLastClaimTime(ctx context.Context, account string, lastClaimTime int64) error
	DeleteStake(ctx context.Context, account string) error
	GetStake(ctx context.Context, account string) (*model.StakeDocument, error)
	GetAllStakes(ctx context.Context) ([]model.StakeDocument, error)

	SaveNewTier(ctx context.Context, tierDoc *model.TierDocument) error
	UpdateTierAPY(ctx context.Context, position int, apyBasisPoints uint32) error
	GetAllTiers(ctx context.Context) ([]model.TierDocument, error)

	GetLedgerState(ctx context.Context) (*model.LedgerStateDocument, error)
	SetPaused(ctx context.Context, paused bool) error
	SetRewardPoolBalance(ctx context.Context, balance string) error
}
