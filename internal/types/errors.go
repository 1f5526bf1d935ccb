package types

import "fmt"

// ErrorKind classifies ledger failures so callers (API layer, metrics)
// can map them without matching individual codes.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindStateConflict ErrorKind = "state_conflict"
	KindTransfer      ErrorKind = "transfer"
	KindUnauthorized  ErrorKind = "unauthorized"
	KindInternal      ErrorKind = "internal"
)

func (k ErrorKind) String() string {
	return string(k)
}

// Error is the ledger error type. Two errors match under errors.Is when
// their codes are equal, so call sites can compare against the sentinel
// values below while still attaching operation-specific messages.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessagef returns a copy of the error carrying a detailed message.
// The copy keeps the code, so it still matches the sentinel.
func (e *Error) WithMessagef(format string, args ...any) *Error {
	return &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

var (
	// Validation failures: rejected before any state mutation or transfer.
	ErrInvalidAmount       = &Error{Kind: KindValidation, Code: "INVALID_AMOUNT", Message: "amount must be greater than zero"}
	ErrInvalidLockPeriod   = &Error{Kind: KindValidation, Code: "INVALID_LOCK_PERIOD", Message: "no tier with the given lock period"}
	ErrInvalidAPY          = &Error{Kind: KindValidation, Code: "INVALID_APY", Message: "apy basis points out of range"}
	ErrDuplicateLockPeriod = &Error{Kind: KindValidation, Code: "DUPLICATE_LOCK_PERIOD", Message: "a tier with this lock period already exists"}
	ErrInvalidTierIndex    = &Error{Kind: KindValidation, Code: "INVALID_TIER_INDEX", Message: "tier index out of bounds"}
	ErrRecoverStakingAsset = &Error{Kind: KindValidation, Code: "RECOVER_STAKING_ASSET", Message: "the staking asset cannot be recovered"}

	// State conflicts: rejected with no side effects.
	ErrExistingStakeFound     = &Error{Kind: KindStateConflict, Code: "EXISTING_STAKE_FOUND", Message: "account already has an active stake"}
	ErrNoStakeFound           = &Error{Kind: KindStateConflict, Code: "NO_STAKE_FOUND", Message: "account has no active stake"}
	ErrStakeStillLocked       = &Error{Kind: KindStateConflict, Code: "STAKE_STILL_LOCKED", Message: "stake is still within its lock period"}
	ErrNoRewardsToClaim       = &Error{Kind: KindStateConflict, Code: "NO_REWARDS_TO_CLAIM", Message: "no rewards accrued since the last claim"}
	ErrInsufficientRewardPool = &Error{Kind: KindStateConflict, Code: "INSUFFICIENT_REWARD_POOL", Message: "reward pool cannot cover the accrued reward"}
	ErrLedgerPaused           = &Error{Kind: KindStateConflict, Code: "LEDGER_PAUSED", Message: "ledger is paused"}

	// Transfer failures: the whole operation rolls back.
	ErrTransferFailed = &Error{Kind: KindTransfer, Code: "TRANSFER_FAILED", Message: "value transfer was rejected"}

	ErrUnauthorized = &Error{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: "caller is not the ledger operator"}

	// ErrInternal covers invariant violations (e.g. clock running
	// backwards past a stake's last claim time). Never user-caused.
	ErrInternal = &Error{Kind: KindInternal, Code: "INTERNAL", Message: "internal ledger error"}
)
