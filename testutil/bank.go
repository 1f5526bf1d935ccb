package testutil

import (
	"context"
	"sync"

	sdkmath "cosmossdk.io/math"

	"github.com/lockstake/staking-ledger/internal/clients/bankclient"
)

// BankCall records one transfer request seen by the fake bank.
type BankCall struct {
	Method  string
	Account string
	Asset   string
	Amount  sdkmath.Int
}

// FakeBank is an in-memory bankclient.BankInterface. Failures can be
// injected per method to exercise rollback paths.
type FakeBank struct {
	mu    sync.Mutex
	calls []BankCall

	PullErr    error
	PushErr    error
	RecoverErr error

	// PushErrAfter fails pushes only after that many succeeded. Used to
	// reject the second push of a two-payout operation. Negative means
	// always honor PushErr.
	PushErrAfter int
	pushCount    int
}

var _ bankclient.BankInterface = (*FakeBank)(nil)

func NewFakeBank() *FakeBank {
	return &FakeBank{PushErrAfter: -1}
}

func (b *FakeBank) Pull(ctx context.Context, account string, amount sdkmath.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, BankCall{Method: "pull", Account: account, Amount: amount})
	return b.PullErr
}

func (b *FakeBank) Push(ctx context.Context, account string, amount sdkmath.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, BankCall{Method: "push", Account: account, Amount: amount})

	if b.PushErr == nil {
		return nil
	}
	if b.PushErrAfter < 0 {
		return b.PushErr
	}
	if b.pushCount < b.PushErrAfter {
		b.pushCount++
		return nil
	}
	return b.PushErr
}

func (b *FakeBank) Recover(ctx context.Context, asset, to string, amount sdkmath.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, BankCall{Method: "recover", Account: to, Asset: asset, Amount: amount})
	return b.RecoverErr
}

// Calls returns a copy of the recorded transfer requests in order.
func (b *FakeBank) Calls() []BankCall {
	b.mu.Lock()
	defer b.mu.Unlock()

	calls := make([]BankCall, len(b.calls))
	copy(calls, b.calls)
	return calls
}
