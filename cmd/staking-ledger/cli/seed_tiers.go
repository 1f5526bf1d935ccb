package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lockstake/staking-ledger/internal/config"
	"github.com/lockstake/staking-ledger/internal/db"
	dbmodel "github.com/lockstake/staking-ledger/internal/db/model"
	"github.com/lockstake/staking-ledger/internal/ledger"
)

func SeedTiersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-tiers",
		Short: "Insert the bootstrap tiers from the config into the database",
		Run:   seedTiers,
	}

	return cmd
}

func seedTiers(cmd *cobra.Command, args []string) {
	if err := seedTiersE(cmd, args); err != nil {
		log.Err(err).Msg("Failed to seed tiers")
		os.Exit(1)
	}

	os.Exit(0)
}

func seedTiersE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	if err := dbmodel.Setup(ctx, &cfg.Db); err != nil {
		return err
	}

	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		return err
	}

	existing, err := dbClient.GetAllTiers(ctx)
	if err != nil {
		return err
	}
	position := len(existing)

	for _, tier := range cfg.Ledger.BootstrapTiers {
		if err := ledger.ValidateLockPeriod(tier.LockPeriodDays); err != nil {
			return err
		}
		if err := ledger.ValidateAPY(tier.ApyBasisPoints); err != nil {
			return err
		}

		err := dbClient.SaveNewTier(ctx, &dbmodel.TierDocument{
			Position:       position,
			LockPeriodDays: tier.LockPeriodDays,
			ApyBasisPoints: tier.ApyBasisPoints,
		})
		if db.IsDuplicateKeyError(err) {
			fmt.Printf("Tier with lock period %d days already exists, skipping\n", tier.LockPeriodDays)
			continue
		} else if err != nil {
			return err
		}

		fmt.Printf("Tier added: %d days at %d bps\n", tier.LockPeriodDays, tier.ApyBasisPoints)
		position++
	}

	return nil
}
