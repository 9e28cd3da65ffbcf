package strategy

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"VWAPSentinel/internal/model"
)

var validate = validator.New()

// Params holds every tunable of the VWAP breakout/retest strategy. Engine and
// runner constructors take it explicitly; nothing reads global state. The
// defaults match the tuning the strategy was developed with, but momentum and
// retest thresholds are expected to be re-fit against fresh historical data.
type Params struct {
	// RiskPct is the percent of current capital risked per trade.
	RiskPct float64 `yaml:"risk_pct" default:"2.0" validate:"gt=0,lte=100"`

	// RiskReward is the fixed reward-to-risk multiple used for targets.
	RiskReward float64 `yaml:"risk_reward" default:"3.0" validate:"gt=0"`

	// StopDistancePct places the stop this percent beyond the session VWAP.
	StopDistancePct float64 `yaml:"stop_distance_pct" default:"0.2" validate:"gt=0,lt=100"`

	// BandMultiplier scales the VWAP deviation bands.
	BandMultiplier float64 `yaml:"band_multiplier" default:"1.0" validate:"gt=0"`

	// BandWindow is the rolling window for band deviation; 0 means
	// session-cumulative, volume-weighted.
	BandWindow int `yaml:"band_window" default:"0" validate:"gte=0"`

	// VolumeRatio is the momentum gate: a breakout candle's volume must be
	// at least this multiple of the rolling average volume.
	VolumeRatio float64 `yaml:"volume_ratio" default:"1.2" validate:"gt=0"`

	// VolumeLookback is the window for the rolling average volume.
	VolumeLookback int `yaml:"volume_lookback" default:"20" validate:"gt=0"`

	// RetestTolerancePct is how close (percent of price) the close must come
	// to VWAP to count as a retest.
	RetestTolerancePct float64 `yaml:"retest_tolerance_pct" default:"0.1" validate:"gt=0"`

	// WarmupCandles at the start of each session produce no entries; sessions
	// shorter than this are skipped entirely.
	WarmupCandles int `yaml:"warmup_candles" default:"20" validate:"gt=0"`

	// InitialCapital is the starting account value for a backtest run.
	InitialCapital float64 `yaml:"initial_capital" default:"100000" validate:"gt=0"`
}

// DefaultParams returns a Params with every field at its documented default.
func DefaultParams() Params {
	var p Params
	_ = defaults.Set(&p)
	return p
}

// Normalize fills zero-valued fields with defaults and validates the result.
// Violations wrap model.ErrConfig and must abort before candle processing.
func (p *Params) Normalize() error {
	if err := defaults.Set(p); err != nil {
		return fmt.Errorf("%w: apply defaults: %v", model.ErrConfig, err)
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", model.ErrConfig, err)
	}
	return nil
}
