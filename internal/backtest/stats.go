package backtest

import (
	"math"

	"VWAPSentinel/internal/model"
)

// computeStats aggregates the trade log and equity curve into a Result.
// Profit factor degenerates to +Inf when there are winners but no losers;
// it is reported as a sentinel, never a crash.
func computeStats(initial, final float64, trades []model.Trade, curve []model.EquityPoint) *model.Result {
	res := &model.Result{
		InitialCapital: initial,
		FinalCapital:   final,
		NetPnL:         final - initial,
		TotalReturn:    (final - initial) / initial,
		TotalTrades:    len(trades),
		Trades:         trades,
		EquityCurve:    curve,
	}

	for _, t := range trades {
		switch {
		case t.PnL > 0:
			res.WinningTrades++
			res.GrossProfit += t.PnL
		case t.PnL < 0:
			res.LosingTrades++
			res.GrossLoss += t.PnL
		}
	}

	if res.TotalTrades > 0 {
		res.WinRate = float64(res.WinningTrades) / float64(res.TotalTrades)
	}
	if res.WinningTrades > 0 {
		res.AvgWin = res.GrossProfit / float64(res.WinningTrades)
	}
	if res.LosingTrades > 0 {
		res.AvgLoss = res.GrossLoss / float64(res.LosingTrades)
	}

	switch {
	case res.GrossLoss != 0:
		res.ProfitFactor = res.GrossProfit / math.Abs(res.GrossLoss)
	case res.GrossProfit > 0:
		res.ProfitFactor = math.Inf(1)
	}

	res.MaxDrawdown = maxDrawdown(initial, curve)
	return res
}

// maxDrawdown is the largest peak-to-trough decline in the equity curve,
// as a fraction of the running peak. The initial capital seeds the peak.
func maxDrawdown(initial float64, curve []model.EquityPoint) float64 {
	peak := initial
	var worst float64
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			if dd := (peak - p.Equity) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}
