package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"VWAPSentinel/internal/collector"
	"VWAPSentinel/internal/config"
	"VWAPSentinel/internal/recorder"
	"VWAPSentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] VWAPSentinel scanner starting...")

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

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.Data.Source {
	case "csv":
		fetcher = collector.NewCSVFetcher(cfg.Data.CSVPath)
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
			log.Fatalf("[FATAL] init clickhouse fetcher: %v", err)
		}
		defer f.Close()
		fetcher = f
	default:
		fetcher = &collector.MockFetcher{}
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.Symbol)

	// Init recorder
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

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, rec, cfg.Strategy)
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("[FATAL] register scan task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] VWAPSentinel scanner is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] VWAPSentinel scanner stopped")
}
