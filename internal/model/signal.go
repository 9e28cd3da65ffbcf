package model

// SignalType classifies a candle's price action relative to VWAP.
type SignalType string

const (
	SignalNone             SignalType = "NONE"
	SignalBullishBreakout  SignalType = "BULLISH_BREAKOUT"
	SignalBullishRetest    SignalType = "BULLISH_RETEST"
	SignalBearishBreakdown SignalType = "BEARISH_BREAKDOWN"
	SignalBearishRetest    SignalType = "BEARISH_RETEST"
)

// Direction is the trade side a signal implies.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Direction maps a signal type to its trade side. SignalNone has none.
func (s SignalType) Direction() Direction {
	switch s {
	case SignalBullishBreakout, SignalBullishRetest:
		return Long
	case SignalBearishBreakdown, SignalBearishRetest:
		return Short
	}
	return ""
}

// Signal is the classification emitted for a single candle. It is derived
// from candles 0..Index only and is never re-evaluated retroactively.
type Signal struct {
	Type  SignalType
	Index int     // candle index within the session
	Price float64 // close of the triggering candle
	VWAP  float64 // session VWAP at the triggering candle
}
