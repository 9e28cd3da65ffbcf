package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"VWAPSentinel/internal/backtest"
	"VWAPSentinel/internal/collector"
	"VWAPSentinel/internal/config"
	"VWAPSentinel/internal/recorder"
	"VWAPSentinel/internal/report"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] VWAPSentinel backtest starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	ctx := context.Background()

	// Init fetcher
	fetcher, cleanup, err := newFetcher(ctx, cfg)
	if err != nil {
		log.Fatalf("[FATAL] init fetcher: %v", err)
	}
	defer cleanup()
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.Symbol)

	from, to, err := cfg.Window(time.Now().UTC())
	if err != nil {
		log.Fatalf("[FATAL] resolve window: %v", err)
	}
	log.Printf("[INFO] backtesting %s from %s to %s",
		cfg.Symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))

	candles, err := col.Collect(ctx, from, to)
	if err != nil {
		log.Fatalf("[FATAL] collect candles: %v", err)
	}
	log.Printf("[INFO] %d candles collected", len(candles))

	// Run backtest
	runner, err := backtest.NewRunner(cfg.Strategy)
	if err != nil {
		log.Fatalf("[FATAL] init runner: %v", err)
	}
	started := time.Now()
	result, err := runner.Run(candles)
	if err != nil {
		log.Fatalf("[FATAL] backtest: %v", err)
	}

	fmt.Print(report.FormatResult(cfg.Symbol, cfg.Strategy, result))

	// Persist the run
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	run := &recorder.RunRecord{
		Symbol:    cfg.Symbol,
		From:      from,
		To:        to,
		Source:    fetcher.Name(),
		Result:    result,
		StartedAt: started,
	}
	if err := rec.RecordRun(run); err != nil {
		log.Printf("[WARN] record run: %v", err)
	} else if run.ID != "" {
		log.Printf("[INFO] run recorded: %s", run.ID)
	}
}

func newFetcher(ctx context.Context, cfg *config.Config) (collector.Fetcher, func(), error) {
	noop := func() {}
	switch cfg.Data.Source {
	case "csv":
		return collector.NewCSVFetcher(cfg.Data.CSVPath), noop, nil
	case "clickhouse":
		ch := cfg.Data.ClickHouse
		f, err := collector.NewClickHouseFetcher(ctx, collector.ClickHouseOptions{
			Addr:     ch.Addr,
			Database: ch.Database,
			Table:    ch.Table,
			User:     ch.User,
			Password: ch.Password,
			Interval: ch.Interval,
		})
		if err != nil {
			return nil, noop, err
		}
		return f, func() { f.Close() }, nil
	default:
		return &collector.MockFetcher{}, noop, nil
	}
}
