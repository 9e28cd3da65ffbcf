package model

// VWAPPoint holds the session-cumulative VWAP and deviation bands for one
// candle. The value at index i depends only on candles 0..i of the same
// session.
type VWAPPoint struct {
	VWAP  float64
	Upper float64
	Lower float64
}
