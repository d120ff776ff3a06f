package service

import (
	"errors"
)

// ErrNotStarted is returned when an operation is called before Start.
var ErrNotStarted = errors.New("service not started")
