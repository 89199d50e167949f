package memtx

import "log"

// Config holds the construction-time parameters of a Memory: the shape of
// the address space and its default fill byte. Both NumPages and PageSize
// must be powers of two; their product is the address space size.
//
// Config is validated once, in New, rather than threading raw ints through
// the constructor.
type Config struct {
	NumPages     int
	PageSize     int
	DefaultValue byte

	// Logger receives two lifecycle lines: page allocation and
	// rejected-add-while-redo-tail-exists. Nil means discard (the default,
	// and zero-cost).
	Logger *log.Logger
}
