package ledger

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/lockstake/staking-ledger/internal/db/model"
)

// Tier is a (lock period, APY) pair a stake is created against. The APY
// is copied into the stake record at creation and never re-read.
type Tier struct {
	LockPeriodDays uint32
	ApyBasisPoints uint32
}

// Enum values for stake state
type StakeState string

const (
	StateIdle     StakeState = "IDLE"
	StateLocked   StakeState = "LOCKED"
	StateUnlocked StakeState = "UNLOCKED"
)

func (s StakeState) String() string {
	return string(s)
}

// StakeRecord is one account's active stake. The ledger service owns
// all records exclusively; callers only ever see copies.
type StakeRecord struct {
	Amount         sdkmath.Int
	StartTime      time.Time
	LockEndTime    time.Time
	ApyBasisPoints uint32
	LastClaimTime  time.Time
}

// Unlocked reports whether the lock period has ended. The boundary
// instant itself counts as unlocked.
func (r *StakeRecord) Unlocked(now time.Time) bool {
	return !now.Before(r.LockEndTime)
}

func (r *StakeRecord) State(now time.Time) StakeState {
	if r == nil {
		return StateIdle
	}
	if r.Unlocked(now) {
		return StateUnlocked
	}
	return StateLocked
}

func newStakeDocument(account string, rec *StakeRecord) *model.StakeDocument {
	return &model.StakeDocument{
		Account:        account,
		Amount:         rec.Amount.String(),
		StartTime:      rec.StartTime.Unix(),
		LockEndTime:    rec.LockEndTime.Unix(),
		ApyBasisPoints: rec.ApyBasisPoints,
		LastClaimTime:  rec.LastClaimTime.Unix(),
	}
}

func stakeRecordFromDocument(doc *model.StakeDocument) (*StakeRecord, error) {
	amount, ok := sdkmath.NewIntFromString(doc.Amount)
	if !ok {
		return nil, fmt.Errorf("invalid stake amount %q for account %s", doc.Amount, doc.Account)
	}

	return &StakeRecord{
		Amount:         amount,
		StartTime:      time.Unix(doc.StartTime, 0).UTC(),
		LockEndTime:    time.Unix(doc.LockEndTime, 0).UTC(),
		ApyBasisPoints: doc.ApyBasisPoints,
		LastClaimTime:  time.Unix(doc.LastClaimTime, 0).UTC(),
	}, nil
}
