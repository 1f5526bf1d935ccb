package model

const StakeCollection = "stakes"

// StakeDocument is the durable copy of an active stake record. The
// account identifier is the primary key, which also enforces the
// one-active-stake-per-account rule at the storage layer. Amounts are
// decimal strings since they can exceed 64 bits; timestamps are unix
// seconds.
type StakeDocument struct {
	Account        string `bson:"_id"`
	Amount         string `bson:"amount"`
	StartTime      int64  `bson:"start_time"`
	LockEndTime    int64  `bson:"lock_end_time"`
	ApyBasisPoints uint32 `bson:"apy_basis_points"`
	LastClaimTime  int64  `bson:"last_claim_time"`
}
