package bankclient

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/lockstake/staking-ledger/internal/observability/metrics"
)

type bankClientWithMetrics struct {
	bank BankInterface
}

func NewBankClientWithMetrics(bank BankInterface) *bankClientWithMetrics {
	return &bankClientWithMetrics{bank: bank}
}

func (b *bankClientWithMetrics) Pull(ctx context.Context, from string, amount sdkmath.Int) error {
	return runBankClientMethodWithMetrics("Pull", func() error {
		return b.bank.Pull(ctx, from, amount)
	})
}

func (b *bankClientWithMetrics) Push(ctx context.Context, to string, amount sdkmath.Int) error {
	return runBankClientMethodWithMetrics("Push", func() error {
		return b.bank.Push(ctx, to, amount)
	})
}

func (b *bankClientWithMetrics) Recover(ctx context.Context, asset, to string, amount sdkmath.Int) error {
	return runBankClientMethodWithMetrics("Recover", func() error {
		return b.bank.Recover(ctx, asset, to, amount)
	})
}

func runBankClientMethodWithMetrics(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordBankClientLatency(duration, method, err != nil)
	return err
}
