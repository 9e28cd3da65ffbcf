package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"VWAPSentinel/internal/model"
)

// Collector fetches candles for one symbol and prepares them for the engine:
// integrity validation at ingestion, then session splitting.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol}
}

// Collect fetches and validates the candle stream for [from, to).
func (c *Collector) Collect(ctx context.Context, from, to time.Time) ([]model.Candle, error) {
	candles, err := c.Fetcher.FetchCandles(ctx, c.Symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch candles (%s): %w", c.Fetcher.Name(), err)
	}
	if err := model.ValidateCandles(candles); err != nil {
		return nil, err
	}
	return candles, nil
}

// CollectSessions fetches, validates and splits the stream into trading days.
func (c *Collector) CollectSessions(ctx context.Context, from, to time.Time) ([]model.Session, error) {
	candles, err := c.Collect(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return model.SplitSessions(candles), nil
}

// MockFetcher returns deterministic synthetic data for development and tests.
type MockFetcher struct {
	BasePrice float64
	Interval  time.Duration
	Candles   []model.Candle // when set, returned as-is
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ context.Context, _ string, from, to time.Time) ([]model.Candle, error) {
	if m.Candles != nil {
		return m.Candles, nil
	}
	interval := m.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	base := m.BasePrice
	if base <= 0 {
		base = 1400
	}

	var candles []model.Candle
	i := 0
	for t := from; t.Before(to); t = t.Add(interval) {
		// gentle deterministic oscillation around the base price
		p := base * (1 + 0.002*math.Sin(float64(i)/7))
		candles = append(candles, model.Candle{
			Time:   t,
			Open:   p * 0.999,
			High:   p * 1.002,
			Low:    p * 0.998,
			Close:  p,
			Volume: 100000 + 5000*float64(i%13),
		})
		i++
	}
	return candles, nil
}
