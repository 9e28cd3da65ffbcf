package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"VWAPSentinel/internal/model"
	"VWAPSentinel/internal/strategy"
)

func TestFormatResult(t *testing.T) {
	res := &model.Result{
		InitialCapital: 100000,
		FinalCapital:   104500,
		NetPnL:         4500,
		TotalReturn:    0.045,
		TotalTrades:    3,
		WinningTrades:  2,
		LosingTrades:   1,
		WinRate:        2.0 / 3.0,
		GrossProfit:    6500,
		GrossLoss:      -2000,
		ProfitFactor:   3.25,
		MaxDrawdown:    0.02,
		Sessions:       5,
		SkippedSignals: 1,
		Trades: []model.Trade{
			{
				Direction:  model.Long,
				Signal:     model.SignalBullishBreakout,
				EntryTime:  time.Date(2025, 3, 10, 10, 55, 0, 0, time.UTC),
				Entry:      1400,
				Exit:       1412,
				Quantity:   250,
				PnL:        3000,
				ExitReason: model.ExitTarget,
			},
		},
	}

	out := FormatResult("RELIANCE", strategy.DefaultParams(), res)

	for _, want := range []string{
		"RELIANCE",
		"Final Capital:",
		"104500.00",
		"Total Trades:    3",
		"Winning Trades:  2 (66.7%)",
		"Skipped Signals: 1",
		"Profit Factor:           3.25",
		"Max Drawdown:           2.00%",
		"BULLISH_BREAKOUT",
		"TARGET",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatResult_InfiniteProfitFactor(t *testing.T) {
	res := &model.Result{
		InitialCapital: 100000,
		FinalCapital:   101000,
		TotalTrades:    1,
		WinningTrades:  1,
		WinRate:        1,
		ProfitFactor:   math.Inf(1),
	}

	out := FormatResult("RELIANCE", strategy.DefaultParams(), res)
	if !strings.Contains(out, "Profit Factor:            inf") {
		t.Errorf("expected inf profit factor line:\n%s", out)
	}
}

func TestFormatSignal(t *testing.T) {
	sig := model.Signal{
		Type:  model.SignalBearishBreakdown,
		Price: 1392.4,
		VWAP:  1395.1,
	}
	out := FormatSignal("RELIANCE", sig)
	for _, want := range []string{"RELIANCE", "BEARISH_BREAKDOWN", "1392.40", "SHORT"} {
		if !strings.Contains(out, want) {
			t.Errorf("signal line missing %q: %s", want, out)
		}
	}

	none := FormatSignal("RELIANCE", model.Signal{Type: model.SignalNone, Price: 1400, VWAP: 1399})
	if !strings.Contains(none, "no signal") {
		t.Errorf("expected no-signal line, got %s", none)
	}
}
