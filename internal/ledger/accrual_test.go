package ledger

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
)

func TestAccrued(t *testing.T) {
	t.Run("fifteen days at fifteen percent", func(t *testing.T) {
		// 1000 * 1500 * 1296000 / (31536000 * 10000) = 6.164..., truncated
		reward := Accrued(sdkmath.NewInt(1000), 1500, 15*secondsPerDay)
		assert.Equal(t, int64(6), reward.Int64())
	})

	t.Run("full year at full rate", func(t *testing.T) {
		reward := Accrued(sdkmath.NewInt(1000), BasisPointsDenominator, secondsPerYear)
		assert.Equal(t, int64(1000), reward.Int64())
	})

	t.Run("zero elapsed accrues nothing", func(t *testing.T) {
		reward := Accrued(sdkmath.NewInt(1000), 1500, 0)
		assert.True(t, reward.IsZero())
	})

	t.Run("negative elapsed accrues nothing", func(t *testing.T) {
		reward := Accrued(sdkmath.NewInt(1000), 1500, -1)
		assert.True(t, reward.IsZero())
	})

	t.Run("truncates toward zero", func(t *testing.T) {
		// one second on a tiny stake rounds down to nothing
		reward := Accrued(sdkmath.NewInt(1), 3000, 1)
		assert.True(t, reward.IsZero())
	})

	t.Run("monotone in elapsed time", func(t *testing.T) {
		amount := sdkmath.NewInt(123456789)
		prev := sdkmath.ZeroInt()
		for _, elapsed := range []int64{1, 60, 3600, secondsPerDay, 30 * secondsPerDay, secondsPerYear} {
			reward := Accrued(amount, 2500, elapsed)
			assert.True(t, reward.GTE(prev), "reward must not decrease as time passes")
			prev = reward
		}
	})

	t.Run("large principal does not overflow", func(t *testing.T) {
		// amount near the 128-bit validation bound; 30% over ten years
		// is exactly three times the principal
		amount := sdkmath.NewIntFromUint64(1).MulRaw(1 << 62).MulRaw(1 << 62)
		reward := Accrued(amount, MaxAPYBasisPoints, 10*secondsPerYear)
		assert.Equal(t, amount.MulRaw(3), reward)
	})
}
