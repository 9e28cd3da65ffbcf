package report

import (
	"fmt"
	"math"
	"strings"

	"VWAPSentinel/internal/model"
	"VWAPSentinel/internal/strategy"
)

const sampleTrades = 10

// FormatResult renders a completed backtest run as a plain-text report.
func FormatResult(symbol string, params strategy.Params, res *model.Result) string {
	var b strings.Builder

	rule := strings.Repeat("=", 64)
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("VWAP BREAKOUT/RETEST BACKTEST | %s\n", symbol))
	b.WriteString(rule + "\n\n")

	b.WriteString(fmt.Sprintf("Risk per trade: %.1f%% | R:R 1:%.1f | Stop %.2f%% off VWAP\n\n",
		params.RiskPct, params.RiskReward, params.StopDistancePct))

	b.WriteString("PERFORMANCE\n")
	b.WriteString(fmt.Sprintf("  Initial Capital: %12.2f\n", res.InitialCapital))
	b.WriteString(fmt.Sprintf("  Final Capital:   %12.2f\n", res.FinalCapital))
	b.WriteString(fmt.Sprintf("  Net P&L:         %12.2f\n", res.NetPnL))
	b.WriteString(fmt.Sprintf("  Return:          %11.2f%%\n\n", res.TotalReturn*100))

	b.WriteString("TRADE STATISTICS\n")
	b.WriteString(fmt.Sprintf("  Sessions:        %d\n", res.Sessions))
	b.WriteString(fmt.Sprintf("  Total Trades:    %d\n", res.TotalTrades))
	b.WriteString(fmt.Sprintf("  Winning Trades:  %d (%.1f%%)\n", res.WinningTrades, res.WinRate*100))
	b.WriteString(fmt.Sprintf("  Losing Trades:   %d\n", res.LosingTrades))
	if res.SkippedSignals > 0 {
		b.WriteString(fmt.Sprintf("  Skipped Signals: %d (zero quantity)\n", res.SkippedSignals))
	}
	b.WriteString("\n")

	b.WriteString("PROFIT/LOSS\n")
	b.WriteString(fmt.Sprintf("  Gross Profit:    %12.2f\n", res.GrossProfit))
	b.WriteString(fmt.Sprintf("  Gross Loss:      %12.2f\n", res.GrossLoss))
	b.WriteString(fmt.Sprintf("  Avg Win:         %12.2f\n", res.AvgWin))
	b.WriteString(fmt.Sprintf("  Avg Loss:        %12.2f\n", res.AvgLoss))
	if math.IsInf(res.ProfitFactor, 1) {
		b.WriteString("  Profit Factor:            inf\n")
	} else {
		b.WriteString(fmt.Sprintf("  Profit Factor:   %12.2f\n", res.ProfitFactor))
	}
	b.WriteString(fmt.Sprintf("  Max Drawdown:    %11.2f%%\n\n", res.MaxDrawdown*100))

	if len(res.Trades) > 0 {
		n := len(res.Trades)
		if n > sampleTrades {
			n = sampleTrades
		}
		b.WriteString(fmt.Sprintf("SAMPLE TRADES (first %d of %d)\n", n, len(res.Trades)))
		for i := 0; i < n; i++ {
			t := res.Trades[i]
			b.WriteString(fmt.Sprintf("  #%d %s %s %s  entry %.2f  exit %.2f  qty %.0f  pnl %+.2f  [%s]\n",
				i+1, t.EntryTime.Format("2006-01-02 15:04"), t.Direction, t.Signal,
				t.Entry, t.Exit, t.Quantity, t.PnL, t.ExitReason))
		}
	}

	return b.String()
}

// FormatSignal renders a live scanner observation as a one-line summary.
func FormatSignal(symbol string, sig model.Signal) string {
	if sig.Type == model.SignalNone {
		return fmt.Sprintf("%s: no signal (close %.2f, vwap %.2f)", symbol, sig.Price, sig.VWAP)
	}
	return fmt.Sprintf("%s: %s @ %.2f (vwap %.2f, %s)",
		symbol, sig.Type, sig.Price, sig.VWAP, sig.Type.Direction())
}
