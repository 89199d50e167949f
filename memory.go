// Package memtx implements a sparse, paged, transactional byte-addressable
// memory with per-byte provenance and a linear undo/redo journal.
//
// What: a fixed-size address space (NumPages * PageSize bytes) backed by
// lazily-allocated pages, plus an append-only transaction log whose cursor
// can step forward and backward, exactly restoring byte values and
// provenance at every step.
// How: reads and writes are decomposed into per-page spans by a range
// walker and dispatched to a sparse page store; the journal snapshots each
// write's pre-image before applying it, so reverting is a second write of
// already-known data, never a recomputation.
// Why: emulators and reversible debuggers need to model tens of megabytes
// of mostly-unwritten address space while attributing every live byte to
// the instruction that wrote it and letting the user scrub through history
// in either direction.
package memtx

import (
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/ravelind/memtx/internal/journal"
	"github.com/ravelind/memtx/internal/pagestore"
	"github.com/ravelind/memtx/internal/rangewalk"
)

// Memory is the aggregate exposed to callers: one PageStore, one Journal,
// and the range-walking glue between them. There is no internal locking:
// a Memory is owned exclusively by one goroutine at a time.
type Memory struct {
	id uuid.UUID

	store  *pagestore.Store
	walker rangewalk.Walker
	jrnl   *journal.Journal
}

// New constructs an empty Memory from cfg. NumPages and PageSize must be
// positive powers of two; their product is the address space size.
func New(cfg Config) (*Memory, error) {
	id := uuid.New()
	logger := instanceLogger(cfg.Logger, id)

	store, err := pagestore.New(cfg.NumPages, cfg.PageSize, cfg.DefaultValue, logger)
	if err != nil {
		return nil, err
	}
	m := &Memory{
		id:     id,
		store:  store,
		walker: rangewalk.New(cfg.PageSize),
	}
	m.jrnl = journal.New((*backing)(m), logger)
	return m, nil
}

// instanceLogger derives a logger that prefixes every line with id, so a
// host running several Memory instances against one shared writer can tell
// their log lines apart. A nil base discards output entirely.
func instanceLogger(base *log.Logger, id uuid.UUID) *log.Logger {
	if base == nil {
		return log.New(io.Discard, "", 0)
	}
	return log.New(base.Writer(), id.String()+": ", base.Flags())
}

// ID returns the identity stamped at construction, used only as a log
// correlation key when a host runs several Memory instances.
func (m *Memory) ID() uuid.UUID { return m.id }

// SpaceSize returns NumPages * PageSize, the total addressable byte range.
func (m *Memory) SpaceSize() int { return m.store.SpaceSize() }

// Stats returns a snapshot of internal bookkeeping.
func (m *Memory) Stats() Stats {
	return Stats{
		AllocatedPages: m.store.AllocatedPages(),
		JournalLen:     m.jrnl.Len(),
		Cursor:         m.jrnl.Cursor(),
	}
}

// Read returns size bytes starting at addr. size must be > 0 and
// addr+size must not exceed SpaceSize(); both are contract violations
// (they panic) rather than part of the error surface, since a caller
// within bounds can always satisfy them statically.
func (m *Memory) Read(addr, size int) []byte {
	m.checkReadBounds(addr, size)
	return m.readBytes(addr, size)
}

// ReadTransactionIDs returns size provenance ids starting at addr, under
// the same preconditions as Read. Id 0 means "never written".
func (m *Memory) ReadTransactionIDs(addr, size int) []uint32 {
	m.checkReadBounds(addr, size)
	return m.readIDs(addr, size)
}

// CurrentTransactionID returns the journal cursor: the number of currently
// applied transactions.
func (m *Memory) CurrentTransactionID() int { return m.jrnl.Cursor() }

// AddTransaction appends and applies a new write of data at addr, tagged
// with codeLocation. It fails, with no state change, if the cursor is not
// at the journal's tip, data is empty, or addr+len(data) does not satisfy
// the strict address-space bound.
func (m *Memory) AddTransaction(addr int, data []byte, codeLocation CodeLocation) error {
	return m.jrnl.AddTransaction(addr, data, string(codeLocation))
}

// NextTransaction re-applies the pending transaction at the cursor and
// advances it by one. It fails if the cursor is already at the tip.
func (m *Memory) NextTransaction() error { return m.jrnl.Next() }

// PreviousTransaction reverts the transaction just before the cursor and
// decrements it by one. It fails if the cursor is already at zero.
func (m *Memory) PreviousTransaction() error { return m.jrnl.Previous() }

// MoveToTransaction steps the cursor to id via repeated Next/Previous. id
// must satisfy 0 <= id < journal length; it fails otherwise.
func (m *Memory) MoveToTransaction(id int) error { return m.jrnl.MoveTo(id) }

// TransactionCodeLocation returns the CodeLocation tag recorded with
// transaction id, for attribution in a debugger UI. ok is false if id is
// out of range.
func (m *Memory) TransactionCodeLocation(id int) (loc CodeLocation, ok bool) {
	rec, ok := m.jrnl.Record(id)
	if !ok {
		return "", false
	}
	return CodeLocation(rec.CodeLocation), true
}

func (m *Memory) checkReadBounds(addr, size int) {
	if size <= 0 {
		panic(fmt.Sprintf("memtx: Read/ReadTransactionIDs size must be > 0, got %d", size))
	}
	if addr+size > m.store.SpaceSize() {
		panic(fmt.Sprintf("memtx: addr=%d size=%d exceeds address space %d", addr, size, m.store.SpaceSize()))
	}
}

// backing adapts *Memory to journal.Backing: read/write over an (addr,
// size) range by walking the pages it spans. This is the only place the
// range walker and the page store are wired together.
type backing Memory

func (b *backing) ReadBytes(addr, size int) []byte {
	return (*Memory)(b).readBytes(addr, size)
}

func (b *backing) ReadIDs(addr, size int) []uint32 {
	return (*Memory)(b).readIDs(addr, size)
}

func (b *backing) WriteBytes(addr int, data []byte) {
	(*Memory)(b).writeBytes(addr, data)
}

func (b *backing) WriteIDs(addr int, ids []uint32) {
	(*Memory)(b).writeIDs(addr, ids)
}

func (b *backing) SpaceSize() int { return (*Memory)(b).SpaceSize() }

func (m *Memory) readBytes(addr, size int) []byte {
	out := make([]byte, size)
	for _, sp := range m.walker.Spans(addr, size) {
		chunk := m.store.ReadPageBytes(sp.PageIdx, sp.Lo, sp.Hi)
		copy(out[sp.BufOff:sp.BufOff+sp.Len()], chunk)
	}
	return out
}

func (m *Memory) readIDs(addr, size int) []uint32 {
	out := make([]uint32, size)
	for _, sp := range m.walker.Spans(addr, size) {
		chunk := m.store.ReadPageIDs(sp.PageIdx, sp.Lo, sp.Hi)
		copy(out[sp.BufOff:sp.BufOff+sp.Len()], chunk)
	}
	return out
}

func (m *Memory) writeBytes(addr int, data []byte) {
	for _, sp := range m.walker.Spans(addr, len(data)) {
		m.store.WritePageBytes(sp.PageIdx, sp.Lo, data[sp.BufOff:sp.BufOff+sp.Len()])
	}
}

func (m *Memory) writeIDs(addr int, ids []uint32) {
	for _, sp := range m.walker.Spans(addr, len(ids)) {
		m.store.WritePageIDs(sp.PageIdx, sp.Lo, ids[sp.BufOff:sp.BufOff+sp.Len()])
	}
}
