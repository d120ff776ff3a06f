package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	// ErrAlreadyClaimed means the candidate is in the global claim set,
	// whether on a tracked roster or taken externally.
	ErrAlreadyClaimed = errors.New("candidate already claimed")

	// ErrDuplicateOnRoster means the target party's roster already
	// holds the candidate without a matching global claim. Indicates a
	// corrupted state file.
	ErrDuplicateOnRoster = errors.New("candidate already on roster")
)
