package collector

import (
	"context"
	"time"

	"VWAPSentinel/internal/model"
)

// Fetcher defines the interface for loading intraday candles.
type Fetcher interface {
	// FetchCandles returns candles for the symbol in [from, to), oldest first.
	FetchCandles(ctx context.Context, symbol string, from, to time.Time) ([]model.Candle, error)
	Name() string
}
