package model

const LedgerStateCollection = "ledger_state"

const LedgerStateID = "ledger_state"

// LedgerStateDocument is a singleton holding the ledger-wide flags and
// the tracked reward pool balance. The total staked figure is not
// stored; it is recomputed from the stake collection on startup so the
// durable copy can never disagree with the records.
type LedgerStateDocument struct {
	ID                string `bson:"_id"`
	Paused            bool   `bson:"paused"`
	RewardPoolBalance string `bson:"reward_pool_balance"`
	LastUpdated       int64  `bson:"last_updated"`
}
