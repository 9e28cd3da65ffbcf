package backtest

import (
	"fmt"
	"log"
	"math"
	"time"

	"VWAPSentinel/internal/calculator"
	"VWAPSentinel/internal/model"
	"VWAPSentinel/internal/strategy"
)

// Runner simulates the VWAP breakout/retest strategy over a candle stream.
// It is a two-state machine (flat / in position) holding the only mutable
// state of the core: capital, the open position, and the trade log. One
// Runner serves exactly one run; results are deterministic for identical
// input and parameters.
type Runner struct {
	params strategy.Params

	capital  float64
	position *model.Position
	trades   []model.Trade
	curve    []model.EquityPoint

	sessions       int
	skippedSignals int
	zeroVolumeBars int
}

// NewRunner validates the parameters and returns a fresh Runner.
func NewRunner(params strategy.Params) (*Runner, error) {
	if err := params.Normalize(); err != nil {
		return nil, err
	}
	return &Runner{
		params:  params,
		capital: params.InitialCapital,
	}, nil
}

// Run validates the candle stream, splits it into daily sessions and
// simulates each one in order. Malformed input aborts with an error wrapping
// model.ErrDataIntegrity before any trade is simulated.
func (r *Runner) Run(candles []model.Candle) (*model.Result, error) {
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: empty candle stream", model.ErrDataIntegrity)
	}
	if err := model.ValidateCandles(candles); err != nil {
		return nil, err
	}

	sessions := model.SplitSessions(candles)
	for _, s := range sessions {
		r.runSession(s)
	}
	return r.result(), nil
}

// RunSessions simulates pre-split sessions, validating each one.
func (r *Runner) RunSessions(sessions []model.Session) (*model.Result, error) {
	for _, s := range sessions {
		if err := model.ValidateCandles(s.Candles); err != nil {
			return nil, fmt.Errorf("session %s: %w", s.Date, err)
		}
		r.runSession(s)
	}
	return r.result(), nil
}

func (r *Runner) runSession(s model.Session) {
	candles := s.Candles
	if len(candles) < r.params.WarmupCandles {
		return
	}
	r.sessions++

	points, carried := calculator.ComputeVWAP(candles, r.params.BandMultiplier, r.params.BandWindow)
	if carried > 0 {
		r.zeroVolumeBars += carried
		log.Printf("[WARN] session %s: %d zero-volume candle(s), VWAP carried forward", s.Date, carried)
	}

	for i := r.params.WarmupCandles; i < len(candles); i++ {
		if r.position != nil {
			r.checkExit(candles[i])
			continue
		}

		sig := strategy.DetectSignal(candles, points, i, r.params)
		if sig.Type == model.SignalNone {
			continue
		}
		r.tryEnter(sig, candles[i])
	}

	// No overnight exposure: force-close at the session's final price.
	if r.position != nil {
		last := candles[len(candles)-1]
		r.closePosition(last.Close, last.Time, model.ExitEODClose)
	}

	r.curve = append(r.curve, model.EquityPoint{
		Time:   candles[len(candles)-1].Time,
		Equity: r.capital,
	})
}

// tryEnter opens a position at the signal candle's close. The stop sits a
// fixed fraction beyond the session VWAP; the target enforces the configured
// reward-to-risk multiple. A zero quantity rejects the signal without error.
func (r *Runner) tryEnter(sig model.Signal, candle model.Candle) {
	direction := sig.Type.Direction()
	entry := candle.Close

	var stop float64
	if direction == model.Long {
		stop = sig.VWAP * (1 - r.params.StopDistancePct/100)
	} else {
		stop = sig.VWAP * (1 + r.params.StopDistancePct/100)
	}

	quantity := calculator.PositionSize(r.capital, r.params.RiskPct, entry, stop)
	if quantity <= 0 {
		r.skippedSignals++
		return
	}
	target := calculator.TargetPrice(entry, stop, r.params.RiskReward)

	r.position = &model.Position{
		Direction: direction,
		Signal:    sig.Type,
		EntryTime: candle.Time,
		Entry:     entry,
		Quantity:  quantity,
		Stop:      stop,
		Target:    target,
		Risk:      quantity * math.Abs(entry-stop),
	}
}

// checkExit closes the open position when the candle's close reaches the
// stop or the target. The stop is checked first.
func (r *Runner) checkExit(candle model.Candle) {
	pos := r.position
	price := candle.Close

	if pos.Direction == model.Long {
		switch {
		case price <= pos.Stop:
			r.closePosition(pos.Stop, candle.Time, model.ExitStop)
		case price >= pos.Target:
			r.closePosition(pos.Target, candle.Time, model.ExitTarget)
		}
		return
	}

	switch {
	case price >= pos.Stop:
		r.closePosition(pos.Stop, candle.Time, model.ExitStop)
	case price <= pos.Target:
		r.closePosition(pos.Target, candle.Time, model.ExitTarget)
	}
}

func (r *Runner) closePosition(exit float64, exitTime time.Time, reason model.ExitReason) {
	pos := r.position

	var pnl float64
	if pos.Direction == model.Long {
		pnl = (exit - pos.Entry) * pos.Quantity
	} else {
		pnl = (pos.Entry - exit) * pos.Quantity
	}

	r.trades = append(r.trades, model.Trade{
		Direction:  pos.Direction,
		Signal:     pos.Signal,
		EntryTime:  pos.EntryTime,
		ExitTime:   exitTime,
		Entry:      pos.Entry,
		Exit:       exit,
		Quantity:   pos.Quantity,
		Stop:       pos.Stop,
		Target:     pos.Target,
		PnL:        pnl,
		Risk:       pos.Risk,
		RealizedRR: pnl / pos.Risk,
		ExitReason: reason,
	})
	r.capital += pnl
	r.position = nil
}

func (r *Runner) result() *model.Result {
	res := computeStats(r.params.InitialCapital, r.capital, r.trades, r.curve)
	res.Sessions = r.sessions
	res.SkippedSignals = r.skippedSignals
	res.ZeroVolumeBars = r.zeroVolumeBars
	return res
}
