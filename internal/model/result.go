package model

import "time"

// EquityPoint is one sample of the cumulative account value, taken at the
// end of each trading session.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// Result aggregates a completed backtest run. Computed once, read-only
// thereafter. ProfitFactor is +Inf when there are winners but no losers.
type Result struct {
	InitialCapital float64
	FinalCapital   float64
	NetPnL         float64
	TotalReturn    float64 // (final - initial) / initial
	TotalTrades    int
	WinningTrades  int
	LosingTrades   int
	WinRate        float64 // wins / total trades
	GrossProfit    float64
	GrossLoss      float64 // negative or zero
	AvgWin         float64
	AvgLoss        float64
	ProfitFactor   float64
	MaxDrawdown    float64 // fraction of the running equity peak
	Sessions       int
	SkippedSignals int // zero-quantity rejections
	ZeroVolumeBars int // VWAP carry-forward occurrences
	Trades         []Trade
	EquityCurve    []EquityPoint
}
