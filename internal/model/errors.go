package model

import "errors"

var (
	// ErrDataIntegrity marks malformed candle input. Fatal: the run aborts.
	ErrDataIntegrity = errors.New("data integrity")

	// ErrConfig marks an invalid strategy or application parameter,
	// detected at construction time before any candle is processed.
	ErrConfig = errors.New("invalid configuration")
)
