package memtx

import (
	"github.com/ravelind/memtx/internal/journal"
	"github.com/ravelind/memtx/internal/pagestore"
)

// Sentinel errors for the kinds of rejection AddTransaction and the step
// operations can return. Wrapped causes (fmt.Errorf("...: %w", ...))
// satisfy errors.Is against these.
var (
	// ErrInvalidDimensions is returned by New when NumPages or PageSize is
	// not a strictly positive power of two.
	ErrInvalidDimensions = pagestore.ErrInvalidDimensions

	// ErrEmptyPayload is returned by AddTransaction when data is empty.
	ErrEmptyPayload = journal.ErrEmptyPayload

	// ErrRangeViolation is returned by AddTransaction when addr+len does
	// not satisfy the strict address-space bound. Read and
	// ReadTransactionIDs have no error return: an out-of-bounds request to
	// either is a contract violation and panics instead.
	ErrRangeViolation = journal.ErrRangeViolation

	// ErrCursorNotAtTip is returned by AddTransaction when a redo tail
	// exists (the cursor is not at the journal's end).
	ErrCursorNotAtTip = journal.ErrCursorNotAtTip

	// ErrOutOfRangeStep is returned by NextTransaction, PreviousTransaction,
	// and MoveToTransaction when the requested step would move the cursor
	// past either end of the journal.
	ErrOutOfRangeStep = journal.ErrOutOfRangeStep
)
