// Package journal implements the append-only transaction log that drives
// forward (Next) and backward (Previous) stepping over a Backing byte
// range, snapshotting each write's pre-image so a step backward can
// restore it exactly.
package journal

// Transaction is one accepted write: the new bytes plus the pre-image
// (bytes and provenance ids) captured immediately before the write was
// applied, so Previous can restore it exactly. Immutable once recorded.
type Transaction struct {
	Addr         int
	Data         []byte
	OldData      []byte
	OldIDs       []uint32
	CodeLocation string
}
