package model

const TierCollection = "tiers"

// TierDocument persists one tier of the registry. Position is the
// insertion index; lock periods carry a unique index (see Setup).
type TierDocument struct {
	Position       int    `bson:"_id"`
	LockPeriodDays uint32 `bson:"lock_period_days"`
	ApyBasisPoints uint32 `bson:"apy_basis_points"`
}
