package model

import (
	"fmt"
	"math"
	"time"
)

// Candle represents a single OHLCV bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TypicalPrice returns (high+low+close)/3, the price used for VWAP weighting.
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3.0
}

// Session holds one calendar trading day's candles in time order.
type Session struct {
	Date    string // YYYY-MM-DD
	Candles []Candle
}

// ValidateCandles checks a candle stream for integrity before any computation.
// Timestamps must be strictly increasing, volumes non-negative, prices finite
// and positive with high >= low. Any violation wraps ErrDataIntegrity.
func ValidateCandles(candles []Candle) error {
	for i, c := range candles {
		if i > 0 && !c.Time.After(candles[i-1].Time) {
			return fmt.Errorf("%w: candle %d timestamp %s not after previous %s",
				ErrDataIntegrity, i, c.Time.Format(time.RFC3339), candles[i-1].Time.Format(time.RFC3339))
		}
		if c.Volume < 0 {
			return fmt.Errorf("%w: candle %d has negative volume %.2f", ErrDataIntegrity, i, c.Volume)
		}
		for _, p := range []float64{c.Open, c.High, c.Low, c.Close} {
			if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
				return fmt.Errorf("%w: candle %d has invalid price", ErrDataIntegrity, i)
			}
		}
		if c.High < c.Low {
			return fmt.Errorf("%w: candle %d high %.4f below low %.4f", ErrDataIntegrity, i, c.High, c.Low)
		}
	}
	return nil
}

// SplitSessions groups a validated candle stream into per-day sessions,
// preserving time order. VWAP resets at each session boundary.
func SplitSessions(candles []Candle) []Session {
	var sessions []Session
	for _, c := range candles {
		date := c.Time.Format("2006-01-02")
		if n := len(sessions); n == 0 || sessions[n-1].Date != date {
			sessions = append(sessions, Session{Date: date})
		}
		last := &sessions[len(sessions)-1]
		last.Candles = append(last.Candles, c)
	}
	return sessions
}
