package strategy

import (
	"math"

	"VWAPSentinel/internal/calculator"
	"VWAPSentinel/internal/model"
)

// DetectSignal classifies the candle at index i against the session VWAP.
// It reads candles 0..i only, so a signal can never change when later
// candles arrive.
//
// A breakout is a close crossing VWAP from the other side on a candle whose
// volume clears the momentum gate. A retest is a close within the tolerance
// band of VWAP that holds the side established by the previous candle.
// When both could fire on the same candle the breakout wins.
func DetectSignal(candles []model.Candle, points []model.VWAPPoint, i int, p Params) model.Signal {
	none := model.Signal{Type: model.SignalNone, Index: i}
	if i <= 0 || i >= len(candles) || i >= len(points) {
		return none
	}

	cur := candles[i]
	vwap := points[i].VWAP
	prevClose := candles[i-1].Close
	prevVWAP := points[i-1].VWAP
	if vwap <= 0 {
		return none
	}

	sig := func(t model.SignalType) model.Signal {
		return model.Signal{Type: t, Index: i, Price: cur.Close, VWAP: vwap}
	}

	// Breakout first: the stronger, earlier signal in the causal chain.
	if hasMomentum(candles, i, p) {
		if prevClose <= prevVWAP && cur.Close > vwap {
			return sig(model.SignalBullishBreakout)
		}
		if prevClose >= prevVWAP && cur.Close < vwap {
			return sig(model.SignalBearishBreakdown)
		}
	}

	distancePct := math.Abs(cur.Close-vwap) / vwap * 100
	if distancePct <= p.RetestTolerancePct {
		if prevClose > prevVWAP && cur.Close > vwap {
			return sig(model.SignalBullishRetest)
		}
		if prevClose < prevVWAP && cur.Close < vwap {
			return sig(model.SignalBearishRetest)
		}
	}

	return none
}

func hasMomentum(candles []model.Candle, i int, p Params) bool {
	avg := calculator.RollingAvgVolume(candles, i, p.VolumeLookback)
	if avg <= 0 {
		return false
	}
	return candles[i].Volume >= p.VolumeRatio*avg
}
