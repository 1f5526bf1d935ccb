package bankclient

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// BankInterface is the transfer collaborator: a single fungible balance
// per account, moved atomically by the bank service. Pull debits an
// account into the ledger's custody, Push credits an account from it.
// Recover moves a balance of a foreign asset held by the ledger.
type BankInterface interface {
	Pull(ctx context.Context, from string, amount sdkmath.Int) error
	Push(ctx context.Context, to string, amount sdkmath.Int) error
	Recover(ctx context.Context, asset, to string, amount sdkmath.Int) error
}
