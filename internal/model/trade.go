package model

import "time"

// ExitReason records why a position was closed.
type ExitReason string

const (
	ExitStop     ExitReason = "STOP"
	ExitTarget   ExitReason = "TARGET"
	ExitEODClose ExitReason = "EOD_CLOSE"
)

// Position is the runner's mutable state while a trade is open.
// At most one position exists at any time.
type Position struct {
	Direction Direction
	Signal    SignalType
	EntryTime time.Time
	Entry     float64
	Quantity  float64
	Stop      float64
	Target    float64
	Risk      float64 // quantity * |entry - stop|
}

// Trade is the immutable record of a closed position, appended to the
// runner's trade log in time order.
type Trade struct {
	Direction  Direction
	Signal     SignalType
	EntryTime  time.Time
	ExitTime   time.Time
	Entry      float64
	Exit       float64
	Quantity   float64
	Stop       float64
	Target     float64
	PnL        float64
	Risk       float64
	RealizedRR float64 // PnL / Risk
	ExitReason ExitReason
}
