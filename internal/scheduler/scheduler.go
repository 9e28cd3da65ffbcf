package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"VWAPSentinel/internal/calculator"
	"VWAPSentinel/internal/collector"
	"VWAPSentinel/internal/model"
	"VWAPSentinel/internal/recorder"
	"VWAPSentinel/internal/report"
	"VWAPSentinel/internal/strategy"
)

// Scheduler runs the live signal scan on a cron schedule. Each scan fetches
// the current session's candles, evaluates the latest one against the
// session VWAP and records any signal. No orders are placed.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Params    strategy.Params
	Ctx       context.Context
}

// NewScheduler creates a Scheduler. Params must already be normalized.
func NewScheduler(ctx context.Context, col *collector.Collector, rec recorder.Recorder, params strategy.Params) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Recorder:  rec,
		Params:    params,
		Ctx:       ctx,
	}
}

// Register adds the scan task under the given cron spec.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	candles, err := s.Collector.Collect(s.Ctx, dayStart, now)
	if err != nil {
		log.Printf("[ERROR] scan collect: %v", err)
		return
	}
	sessions := model.SplitSessions(candles)
	if len(sessions) == 0 {
		log.Println("[INFO] scan: no candles for the current session yet")
		return
	}
	session := sessions[len(sessions)-1]
	if len(session.Candles) < s.Params.WarmupCandles {
		log.Printf("[INFO] scan: %d candle(s), waiting for warmup (%d)", len(session.Candles), s.Params.WarmupCandles)
		return
	}

	points, carried := calculator.ComputeVWAP(session.Candles, s.Params.BandMultiplier, s.Params.BandWindow)
	if carried > 0 {
		log.Printf("[WARN] scan: %d zero-volume candle(s), VWAP carried forward", carried)
	}

	last := len(session.Candles) - 1
	sig := strategy.DetectSignal(session.Candles, points, last, s.Params)
	if sig.Type == model.SignalNone {
		log.Printf("[INFO] scan %s: no signal (close %.2f, vwap %.2f)",
			s.Collector.Symbol, session.Candles[last].Close, points[last].VWAP)
		return
	}

	log.Printf("[INFO] scan %s", report.FormatSignal(s.Collector.Symbol, sig))
	evt := &recorder.SignalEvent{
		Time:   session.Candles[last].Time,
		Symbol: s.Collector.Symbol,
		Type:   sig.Type,
		Price:  sig.Price,
		VWAP:   sig.VWAP,
	}
	if err := s.Recorder.RecordSignal(evt); err != nil {
		log.Printf("[ERROR] record signal: %v", err)
	}
}
