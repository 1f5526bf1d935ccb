package config

import (
	"fmt"
	"net/url"
	"time"
)

type BankConfig struct {
	// BaseURL of the fungible-balance service implementing the
	// pull/push transfer interface, including the protocol prefix.
	BaseURL       string        `mapstructure:"base-url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *BankConfig) Validate() error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("bank base url is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return fmt.Errorf("invalid bank base url: %w", err)
	}
	if cfg.Timeout == 0 {
		return fmt.Errorf("bank timeout is required")
	}
	if cfg.MaxRetryTimes == 0 {
		return fmt.Errorf("bank max retry times is required")
	}
	if cfg.RetryInterval == 0 {
		return fmt.Errorf("bank retry interval is required")
	}

	return nil
}
