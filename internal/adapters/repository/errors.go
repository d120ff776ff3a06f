package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	// ErrMissingRankings and ErrMissingLeagueConfig are fatal to
	// startup: nothing can be scored without them.
	ErrMissingRankings     = errors.New("rankings snapshot missing or empty")
	ErrMissingLeagueConfig = errors.New("league configuration missing")

	// ErrNotFound means a name resolved to no known candidate, which
	// callers report distinctly from an already-claimed conflict.
	ErrNotFound = errors.New("candidate not found")

	// ErrAmbiguousName means a name resolved to several candidates and
	// the caller should disambiguate instead of auto-selecting one.
	ErrAmbiguousName = errors.New("candidate name is ambiguous")
)
