package config

import (
	"fmt"
	"time"
)

type PollerConfig struct {
	StatsPollingInterval time.Duration `mapstructure:"stats-polling-interval"`
}

func (cfg *PollerConfig) Validate() error {
	if cfg.StatsPollingInterval <= 0 {
		return fmt.Errorf("stats polling interval must be positive")
	}

	return nil
}
