package recorder

import (
	"time"

	"VWAPSentinel/internal/model"
)

// RunRecord holds everything persisted for one completed backtest run.
type RunRecord struct {
	ID        string // assigned by the recorder when empty
	Symbol    string
	From      time.Time
	To        time.Time
	Source    string // candle source name
	Result    *model.Result
	StartedAt time.Time
}

// SignalEvent records a non-NONE signal observed by the live scanner.
type SignalEvent struct {
	Time   time.Time
	Symbol string
	Type   model.SignalType
	Price  float64
	VWAP   float64
}

// Recorder persists runs and live signal events for later analysis.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecordSignal(evt *SignalEvent) error
	Close() error
}
