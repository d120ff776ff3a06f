package config

import (
	"errors"
)

// Sentinels callers can test with errors.Is. Load wraps these with the
// offending key or source.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrLoadConfig    = errors.New("configuration load failed")
)
