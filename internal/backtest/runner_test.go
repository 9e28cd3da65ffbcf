package backtest

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"VWAPSentinel/internal/model"
	"VWAPSentinel/internal/strategy"
)

func candle(t time.Time, close, volume float64) model.Candle {
	return model.Candle{
		Time:   t,
		Open:   close,
		High:   close * 1.002,
		Low:    close * 0.998,
		Close:  close,
		Volume: volume,
	}
}

func day(dayStart time.Time, closes, volumes []float64) []model.Candle {
	candles := make([]model.Candle, len(closes))
	for i := range closes {
		candles[i] = candle(dayStart.Add(time.Duration(i)*5*time.Minute), closes[i], volumes[i])
	}
	return candles
}

func flatThen(closes ...float64) ([]float64, []float64) {
	prices := make([]float64, 0, 20+len(closes))
	volumes := make([]float64, 0, 20+len(closes))
	for i := 0; i < 20; i++ {
		prices = append(prices, 100)
		volumes = append(volumes, 1000)
	}
	prices = append(prices, closes...)
	for i := range closes {
		v := 1000.0
		if i == 0 {
			v = 3000 // volume spike on the crossing candle
		}
		volumes = append(volumes, v)
	}
	return prices, volumes
}

var day0 = time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)

func TestRunner_StopExit(t *testing.T) {
	// Breakout at candle 20, price collapses through the stop.
	closes, volumes := flatThen(101, 100.6, 100.2, 99.5)
	candles := day(day0, closes, volumes)

	runner, err := NewRunner(strategy.DefaultParams())
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	res, err := runner.Run(candles)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.TotalTrades != 1 {
		t.Fatalf("expected 1 trade, got %d", res.TotalTrades)
	}
	tr := res.Trades[0]
	if tr.ExitReason != model.ExitStop {
		t.Fatalf("expected STOP exit, got %s", tr.ExitReason)
	}
	if tr.Exit != tr.Stop {
		t.Errorf("stop exit should fill at the stop price: exit %.4f, stop %.4f", tr.Exit, tr.Stop)
	}
	// Losing the full stop distance loses one risk unit.
	if math.Abs(tr.PnL+tr.Risk) > 1e-6 {
		t.Errorf("stop loss should equal -risk: pnl %.4f, risk %.4f", tr.PnL, tr.Risk)
	}
	if math.Abs(tr.RealizedRR+1) > 1e-9 {
		t.Errorf("expected realized R:R of -1, got %.4f", tr.RealizedRR)
	}
	if res.FinalCapital >= res.InitialCapital {
		t.Error("expected capital to shrink after a losing trade")
	}
}

func TestRunner_TargetExit(t *testing.T) {
	closes, volumes := flatThen(101, 102, 103.5, 105.5)
	candles := day(day0, closes, volumes)

	runner, _ := NewRunner(strategy.DefaultParams())
	res, err := runner.Run(candles)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.TotalTrades != 1 {
		t.Fatalf("expected 1 trade, got %d", res.TotalTrades)
	}
	tr := res.Trades[0]
	if tr.ExitReason != model.ExitTarget {
		t.Fatalf("expected TARGET exit, got %s", tr.ExitReason)
	}
	if tr.Exit != tr.Target {
		t.Errorf("target exit should fill at the target price: exit %.4f, target %.4f", tr.Exit, tr.Target)
	}
	// A full target run earns the configured reward multiple.
	if math.Abs(tr.RealizedRR-3.0) > 1e-9 {
		t.Errorf("expected realized R:R of 3.0, got %.4f", tr.RealizedRR)
	}
}

// A position that never reaches stop or target is force-closed at the
// session's final candle close.
func TestRunner_EODClose(t *testing.T) {
	closes, volumes := flatThen(101, 101.4, 100.8, 101.2, 101.8)
	candles := day(day0, closes, volumes)

	runner, _ := NewRunner(strategy.DefaultParams())
	res, err := runner.Run(candles)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.TotalTrades != 1 {
		t.Fatalf("expected 1 trade, got %d", res.TotalTrades)
	}
	tr := res.Trades[0]
	if tr.ExitReason != model.ExitEODClose {
		t.Fatalf("expected EOD_CLOSE exit, got %s", tr.ExitReason)
	}
	last := candles[len(candles)-1]
	if tr.Exit != last.Close {
		t.Errorf("EOD exit should fill at the final close %.2f, got %.4f", last.Close, tr.Exit)
	}
	if !tr.ExitTime.Equal(last.Time) {
		t.Errorf("EOD exit time should be the final candle time")
	}
}

func multiDayCandles() []model.Candle {
	closes := []float64{
		100, 100, 100, 100, 100, 100, 100, 100, 100, 100,
		100, 100, 100, 100, 100, 100, 100, 100, 100, 100,
		101, 100.6, 100.2, 99.8, 99.8, 100.5, 101, 101.6, 102.2, 102,
	}
	volumes := []float64{
		1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000,
		1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000,
		3000, 1000, 1000, 1000, 1000, 3000, 1000, 1000, 1000, 1000,
	}

	var candles []model.Candle
	for d := 0; d < 3; d++ {
		candles = append(candles, day(day0.AddDate(0, 0, d), closes, volumes)...)
	}
	return candles
}

func TestRunner_SinglePositionInvariant(t *testing.T) {
	runner, _ := NewRunner(strategy.DefaultParams())
	res, err := runner.Run(multiDayCandles())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.TotalTrades < 2 {
		t.Fatalf("expected multiple trades, got %d", res.TotalTrades)
	}

	for i := 1; i < len(res.Trades); i++ {
		prev, cur := res.Trades[i-1], res.Trades[i]
		if cur.EntryTime.Before(prev.ExitTime) {
			t.Errorf("trade %d entered at %s before trade %d exited at %s",
				i, cur.EntryTime, i-1, prev.ExitTime)
		}
	}
}

func TestRunner_RiskBudgetInvariant(t *testing.T) {
	params := strategy.DefaultParams()
	runner, _ := NewRunner(params)
	res, err := runner.Run(multiDayCandles())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Trades are sequential, so capital at each entry is the initial capital
	// plus the P&L of all previously closed trades.
	capital := res.InitialCapital
	for i, tr := range res.Trades {
		budget := capital * params.RiskPct / 100
		if tr.Risk > budget+1e-6 {
			t.Errorf("trade %d: risk %.2f exceeds budget %.2f", i, tr.Risk, budget)
		}
		capital += tr.PnL
	}
	if math.Abs(capital-res.FinalCapital) > 1e-6 {
		t.Errorf("trade log does not reconcile: %.2f vs final %.2f", capital, res.FinalCapital)
	}
}

func TestRunner_Idempotence(t *testing.T) {
	candles := multiDayCandles()

	r1, _ := NewRunner(strategy.DefaultParams())
	res1, err := r1.Run(candles)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	r2, _ := NewRunner(strategy.DefaultParams())
	res2, err := r2.Run(candles)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(res1, res2) {
		t.Error("identical input and parameters must produce identical results")
	}
}

func TestRunner_ZeroQuantityRejection(t *testing.T) {
	params := strategy.DefaultParams()
	params.InitialCapital = 1 // risk budget far below one share's risk
	closes, volumes := flatThen(101, 101.2, 101.4)
	candles := day(day0, closes, volumes)

	runner, err := NewRunner(params)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	res, err := runner.Run(candles)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.TotalTrades != 0 {
		t.Errorf("expected no trades, got %d", res.TotalTrades)
	}
	if res.SkippedSignals == 0 {
		t.Error("expected the signal to be counted as skipped")
	}
	if res.FinalCapital != params.InitialCapital {
		t.Errorf("capital must be untouched, got %.2f", res.FinalCapital)
	}
}

func TestRunner_RejectsBadInput(t *testing.T) {
	runner, _ := NewRunner(strategy.DefaultParams())
	candles := []model.Candle{
		candle(day0.Add(5*time.Minute), 100, 1000),
		candle(day0, 101, 1000), // out of order
	}
	if _, err := runner.Run(candles); !errors.Is(err, model.ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}

	runner2, _ := NewRunner(strategy.DefaultParams())
	if _, err := runner2.Run(nil); !errors.Is(err, model.ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity for empty stream, got %v", err)
	}
}

func TestRunner_RejectsBadParams(t *testing.T) {
	params := strategy.DefaultParams()
	params.RiskPct = -1
	if _, err := NewRunner(params); !errors.Is(err, model.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

// Sessions shorter than the warmup produce no trades and no equity point.
func TestRunner_SkipsShortSessions(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104}
	volumes := []float64{1000, 1000, 1000, 1000, 1000}
	candles := day(day0, closes, volumes)

	runner, _ := NewRunner(strategy.DefaultParams())
	res, err := runner.Run(candles)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Sessions != 0 || res.TotalTrades != 0 || len(res.EquityCurve) != 0 {
		t.Errorf("short session must be skipped: sessions=%d trades=%d curve=%d",
			res.Sessions, res.TotalTrades, len(res.EquityCurve))
	}
}
