package calculator

import (
	"math"

	"VWAPSentinel/internal/model"
)

// ComputeVWAP computes the session-cumulative VWAP and deviation bands for a
// single session's candles. The value at index i uses candles 0..i only.
//
// Candles with zero cumulative volume carry the previous VWAP forward (the
// very first candle falls back to its typical price); the number of
// carry-forwards is returned so callers can log a warning. bandWindow == 0
// uses the session-cumulative volume-weighted deviation, a positive value a
// rolling plain deviation over that many candles.
func ComputeVWAP(candles []model.Candle, multiplier float64, bandWindow int) ([]model.VWAPPoint, int) {
	n := len(candles)
	points := make([]model.VWAPPoint, n)
	if n == 0 {
		return points, 0
	}

	var sumTPV, sumV float64
	var sumSqV float64 // cumulative (tp-vwap)^2 * volume
	carried := 0

	for i, c := range candles {
		tp := c.TypicalPrice()
		sumTPV += tp * c.Volume
		sumV += c.Volume

		var vwap float64
		switch {
		case sumV > 0:
			vwap = sumTPV / sumV
		case i > 0:
			vwap = points[i-1].VWAP
			carried++
		default:
			vwap = tp
			carried++
		}

		var std float64
		if bandWindow > 0 {
			std = rollingDeviation(candles, points, vwap, i, bandWindow)
		} else {
			diff := tp - vwap
			sumSqV += diff * diff * c.Volume
			if sumV > 0 {
				std = math.Sqrt(sumSqV / sumV)
			}
		}

		points[i] = model.VWAPPoint{
			VWAP:  vwap,
			Upper: vwap + multiplier*std,
			Lower: vwap - multiplier*std,
		}
	}
	return points, carried
}

// rollingDeviation is the standard deviation of (typical price - vwap) over
// the last `window` candles ending at index i, using each candle's own VWAP.
func rollingDeviation(candles []model.Candle, points []model.VWAPPoint, curVWAP float64, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	count := i - start + 1

	var sum, sumSq float64
	for j := start; j <= i; j++ {
		ref := curVWAP
		if j < i {
			ref = points[j].VWAP
		}
		d := candles[j].TypicalPrice() - ref
		sum += d
		sumSq += d * d
	}
	mean := sum / float64(count)
	variance := sumSq/float64(count) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// RollingAvgVolume returns the average volume of the `window` candles ending
// at index i-1, i.e. the history a momentum check at i may look at. Returns 0
// when there is no history.
func RollingAvgVolume(candles []model.Candle, i, window int) float64 {
	if i <= 0 || window <= 0 {
		return 0
	}
	start := i - window
	if start < 0 {
		start = 0
	}
	var sum float64
	for j := start; j < i; j++ {
		sum += candles[j].Volume
	}
	return sum / float64(i-start)
}
