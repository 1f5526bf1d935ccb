package ledger

import (
	sdkmath "cosmossdk.io/math"
)

const (
	secondsPerDay  = 86400
	secondsPerYear = 365 * secondsPerDay

	// BasisPointsDenominator converts basis points to a rate (10000 = 100%).
	BasisPointsDenominator = 10000

	// MaxAPYBasisPoints caps tier yields at 30%.
	MaxAPYBasisPoints = 3000

	// maxAmountBits bounds stake and funding amounts. With amounts below
	// 2^128, apy below 2^12 and elapsed seconds below 2^63 the accrual
	// numerator stays under 2^203, inside sdkmath.Int's 256-bit range.
	maxAmountBits = 128
)

// Accrued returns the reward owed on amount at apyBasisPoints after
// elapsedSeconds, truncated toward zero. Truncation means the ledger
// never overpays. Negative elapsed time is the caller's invariant to
// reject; zero elapsed time accrues nothing.
func Accrued(amount sdkmath.Int, apyBasisPoints uint32, elapsedSeconds int64) sdkmath.Int {
	if elapsedSeconds <= 0 || !amount.IsPositive() {
		return sdkmath.ZeroInt()
	}

	numerator := amount.MulRaw(int64(apyBasisPoints)).MulRaw(elapsedSeconds)
	return numerator.QuoRaw(secondsPerYear * BasisPointsDenominator)
}
