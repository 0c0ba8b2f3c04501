package engine

// IsInRange reports whether the current tick sits inside the position's
// bounds, inclusive at both ends. This is the indicator shown to users.
func IsInRange(currentTick, tickLower, tickUpper int32) bool {
	return currentTick >= tickLower && currentTick <= tickUpper
}

// EarningFees reports whether the position's liquidity is active for fee
// accrual. Unlike IsInRange, a tick exactly at the upper bound counts as
// above the range, matching the fee accounting branch selection.
func EarningFees(currentTick, tickLower, tickUpper int32) bool {
	return currentTick >= tickLower && currentTick < tickUpper
}
