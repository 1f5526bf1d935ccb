package types

type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	EventStakeOpened     EventType = "staking.ledger.v1.StakeOpened"
	EventRewardsClaimed  EventType = "staking.ledger.v1.RewardsClaimed"
	EventUnstaked        EventType = "staking.ledger.v1.Unstaked"
	EventEmergencyExited EventType = "staking.ledger.v1.EmergencyExited"
	EventPoolFunded      EventType = "staking.ledger.v1.PoolFunded"
)

const (
	EventTierAdded      EventType = "staking.ledger.v1.TierAdded"
	EventTierUpdated    EventType = "staking.ledger.v1.TierUpdated"
	EventLedgerPaused   EventType = "staking.ledger.v1.LedgerPaused"
	EventLedgerUnpaused EventType = "staking.ledger.v1.LedgerUnpaused"
	EventAssetRecovered EventType = "staking.ledger.v1.AssetRecovered"
)

// Event payloads consumed by the UI/indexing layer. Amounts travel as
// decimal strings since they can exceed 64 bits.

type StakeOpenedEvent struct {
	Account        string `json:"account"`
	Amount         string `json:"amount"`
	LockPeriodDays uint32 `json:"lock_period_days"`
	ApyBasisPoints uint32 `json:"apy_basis_points"`
}

type RewardsClaimedEvent struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type UnstakedEvent struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
	Reward  string `json:"reward"`
}

type EmergencyExitedEvent struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type PoolFundedEvent struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type TierAddedEvent struct {
	TierIndex      int    `json:"tier_index"`
	LockPeriodDays uint32 `json:"lock_period_days"`
	ApyBasisPoints uint32 `json:"apy_basis_points"`
}

type TierUpdatedEvent struct {
	TierIndex      int    `json:"tier_index"`
	LockPeriodDays uint32 `json:"lock_period_days"`
	ApyBasisPoints uint32 `json:"apy_basis_points"`
}

type PauseStateChangedEvent struct {
	Paused bool `json:"paused"`
}

type AssetRecoveredEvent struct {
	Asset  string `json:"asset"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}
