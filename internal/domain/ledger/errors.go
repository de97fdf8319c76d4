package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	ErrUnknownCategory = errors.New("unknown ledger category")
	ErrIrreversible    = errors.New("completion cannot be undone")
)
