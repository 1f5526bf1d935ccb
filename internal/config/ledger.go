package config

import (
	"fmt"
)

type LedgerConfig struct {
	// OperatorKey authenticates the privileged operator. Every
	// privileged ledger operation compares the caller against it.
	OperatorKey string `mapstructure:"operator-key"`
	// StakingAsset is the identifier of the staked asset at the bank
	// service. Asset recovery of this identifier is always rejected.
	StakingAsset string `mapstructure:"staking-asset"`
	// BootstrapTiers seeds the tier registry via the seed-tiers command.
	BootstrapTiers []BootstrapTier `mapstructure:"bootstrap-tiers"`
}

type BootstrapTier struct {
	LockPeriodDays uint32 `mapstructure:"lock-period-days"`
	ApyBasisPoints uint32 `mapstructure:"apy-basis-points"`
}

func (cfg *LedgerConfig) Validate() error {
	if cfg.OperatorKey == "" {
		return fmt.Errorf("ledger operator key is required")
	}
	if cfg.StakingAsset == "" {
		return fmt.Errorf("staking asset identifier is required")
	}

	return nil
}
