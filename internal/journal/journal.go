package journal

import (
	"errors"
	"fmt"
	"log"
)

// Errors returned by Journal operations. All are "rejected, no state
// change" signals; the specific sentinel lets callers distinguish the
// cause.
var (
	ErrEmptyPayload   = errors.New("journal: data must not be empty")
	ErrRangeViolation = errors.New("journal: addr+len exceeds the address space")
	ErrCursorNotAtTip = errors.New("journal: add_transaction while a redo tail exists")
	ErrOutOfRangeStep = errors.New("journal: step would move the cursor out of range")
)

// Backing is the byte-addressable surface a Journal replays transactions
// against. Memory implements it by composing a pagestore.Store with a
// rangewalk.Walker; Journal itself knows nothing about pages.
type Backing interface {
	ReadBytes(addr, size int) []byte
	ReadIDs(addr, size int) []uint32
	WriteBytes(addr int, data []byte)
	WriteIDs(addr int, ids []uint32)
	SpaceSize() int
}

// Journal is the linear, append-only sequence of applied/pending
// transactions, with a cursor that can step forward and backward through
// it. The zero value is not usable; build one with New.
type Journal struct {
	backing Backing
	records []Transaction
	cursor  int

	// Logger receives one line per rejected add (cursor not at tip). Never
	// nil.
	Logger *log.Logger
}

// New builds an empty Journal over backing.
func New(backing Backing, logger *log.Logger) *Journal {
	if logger == nil {
		logger = log.New(discardWriter{}, "", 0)
	}
	return &Journal{backing: backing, Logger: logger}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Len returns the total number of records, applied or pending.
func (j *Journal) Len() int { return len(j.records) }

// Cursor returns the current applied-record count.
func (j *Journal) Cursor() int { return j.cursor }

// Record returns the transaction at idx, applied or pending. ok is false
// if idx is out of [0, Len()).
func (j *Journal) Record(idx int) (rec Transaction, ok bool) {
	if idx < 0 || idx >= len(j.records) {
		return Transaction{}, false
	}
	return j.records[idx], true
}

// AddTransaction appends a new record for data written at addr and applies
// it immediately. It fails, with no state change, if a redo tail exists,
// data is empty, or the write would not satisfy addr+len < SpaceSize().
func (j *Journal) AddTransaction(addr int, data []byte, codeLocation string) error {
	if j.cursor != len(j.records) {
		j.Logger.Printf("journal: add_transaction rejected: cursor %d is not at tip %d", j.cursor, len(j.records))
		return ErrCursorNotAtTip
	}
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	if addr+len(data) >= j.backing.SpaceSize() {
		return fmt.Errorf("journal: addr=%d len=%d space=%d: %w", addr, len(data), j.backing.SpaceSize(), ErrRangeViolation)
	}

	oldData := j.backing.ReadBytes(addr, len(data))
	oldIDs := j.backing.ReadIDs(addr, len(data))

	rec := Transaction{
		Addr:         addr,
		Data:         append([]byte(nil), data...),
		OldData:      oldData,
		OldIDs:       oldIDs,
		CodeLocation: codeLocation,
	}
	j.records = append(j.records, rec)

	// apply-next is infallible here: we just appended, so cursor < len.
	return j.Next()
}

// Next applies the record at the cursor and advances it by one. It fails
// if the cursor is already at the journal's tip.
func (j *Journal) Next() error {
	if j.cursor == len(j.records) {
		return ErrOutOfRangeStep
	}
	rec := j.records[j.cursor]
	j.backing.WriteBytes(rec.Addr, rec.Data)

	ids := make([]uint32, len(rec.Data))
	stamp := uint32(j.cursor + 1)
	for i := range ids {
		ids[i] = stamp
	}
	j.backing.WriteIDs(rec.Addr, ids)

	j.cursor++
	return nil
}

// Previous reverts the record just before the cursor and decrements it by
// one. It fails if the cursor is already at zero.
func (j *Journal) Previous() error {
	if j.cursor == 0 {
		return ErrOutOfRangeStep
	}
	rec := j.records[j.cursor-1]
	j.backing.WriteBytes(rec.Addr, rec.OldData)
	j.backing.WriteIDs(rec.Addr, rec.OldIDs)
	j.cursor--
	return nil
}

// MoveTo steps the cursor to target (an index into the applied-record
// space) via repeated Next/Previous. target must satisfy
// 0 <= target < Len(): MoveTo cannot be used to step to the journal's
// tip (use Next repeatedly for that). It otherwise cannot fail, since
// each step is pre-validated to be legal.
func (j *Journal) MoveTo(target int) error {
	if target < 0 || target >= len(j.records) {
		return ErrOutOfRangeStep
	}
	for j.cursor > target {
		if err := j.Previous(); err != nil {
			return err
		}
	}
	for j.cursor < target {
		if err := j.Next(); err != nil {
			return err
		}
	}
	return nil
}
