package calculator

import "math"

// PositionSize returns the whole number of shares that keeps the loss at the
// stop within riskPct percent of the account value. Returns 0 when the stop
// sits on the entry or the budget does not cover a single share; the caller
// treats that as a rejected signal, not an error.
func PositionSize(accountValue, riskPct, entry, stop float64) float64 {
	riskPerShare := math.Abs(entry - stop)
	if riskPerShare == 0 {
		return 0
	}
	riskAmount := accountValue * riskPct / 100
	return math.Floor(riskAmount / riskPerShare)
}

// TargetPrice places the profit target a fixed reward-to-risk multiple away
// from the entry, on the opposite side of the stop.
func TargetPrice(entry, stop, riskReward float64) float64 {
	reward := math.Abs(entry-stop) * riskReward
	if entry > stop { // long
		return entry + reward
	}
	return entry - reward
}
