package pagestore

import (
	"fmt"
	"log"
)

// Store is a sparse array of NumPages slots of PageSize bytes each. An
// empty slot reads as PageSize copies of defaultValue / zero provenance;
// it is promoted to an allocated Page on its first write.
type Store struct {
	numPages     int
	pageSize     int
	defaultValue byte
	slots        []*Page

	// Logger receives one line per first-write page allocation. It is
	// never nil: callers that don't care get a discard logger from New.
	Logger *log.Logger
}

// New validates numPages and pageSize (both must be powers of two, both
// strictly positive) and returns an all-empty Store.
func New(numPages, pageSize int, defaultValue byte, logger *log.Logger) (*Store, error) {
	if !isPowerOfTwo(numPages) || !isPowerOfTwo(pageSize) {
		return nil, fmt.Errorf("pagestore: numPages=%d pageSize=%d: %w", numPages, pageSize, ErrInvalidDimensions)
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Store{
		numPages:     numPages,
		pageSize:     pageSize,
		defaultValue: defaultValue,
		slots:        make([]*Page, numPages),
		Logger:       logger,
	}, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NumPages returns the number of page slots.
func (s *Store) NumPages() int { return s.numPages }

// PageSize returns the size in bytes of a single page.
func (s *Store) PageSize() int { return s.pageSize }

// SpaceSize returns the total addressable byte range, NumPages*PageSize.
func (s *Store) SpaceSize() int { return s.numPages * s.pageSize }

// AllocatedPages returns the number of slots that have been materialized.
func (s *Store) AllocatedPages() int {
	n := 0
	for _, p := range s.slots {
		if p != nil {
			n++
		}
	}
	return n
}

// ReadPageBytes copies data[lo:hi+1] of pageIdx into a freshly allocated
// slice, synthesizing defaultValue for an empty slot.
func (s *Store) ReadPageBytes(pageIdx, lo, hi int) []byte {
	n := hi - lo + 1
	out := make([]byte, n)
	p := s.slots[pageIdx]
	if p == nil {
		for i := range out {
			out[i] = s.defaultValue
		}
		return out
	}
	copy(out, p.data[lo:hi+1])
	return out
}

// ReadPageIDs copies txnIDs[lo:hi+1] of pageIdx, synthesizing zeros for an
// empty slot.
func (s *Store) ReadPageIDs(pageIdx, lo, hi int) []uint32 {
	n := hi - lo + 1
	out := make([]uint32, n)
	p := s.slots[pageIdx]
	if p == nil {
		return out
	}
	copy(out, p.txnIDs[lo:hi+1])
	return out
}

// WritePageBytes overwrites data[lo:lo+len(b)) of pageIdx, allocating the
// slot first if it was empty.
func (s *Store) WritePageBytes(pageIdx, lo int, b []byte) {
	p := s.ensurePage(pageIdx)
	copy(p.data[lo:lo+len(b)], b)
}

// WritePageIDs overwrites txnIDs[lo:lo+len(ids)) of pageIdx. The page must
// already be allocated: the write path always writes bytes before ids, so
// an id write against an empty slot is a programming error.
func (s *Store) WritePageIDs(pageIdx, lo int, ids []uint32) {
	p := s.slots[pageIdx]
	if p == nil {
		panic("pagestore: WritePageIDs on a never-allocated page")
	}
	copy(p.txnIDs[lo:lo+len(ids)], ids)
}

func (s *Store) ensurePage(pageIdx int) *Page {
	p := s.slots[pageIdx]
	if p != nil {
		return p
	}
	p = newPage(s.pageSize, s.defaultValue)
	s.slots[pageIdx] = p
	s.Logger.Printf("pagestore: allocated page %d (default=0x%02x)", pageIdx, s.defaultValue)
	return p
}

func discardLogger() *log.Logger {
	return log.New(discardWriter{}, "", 0)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
