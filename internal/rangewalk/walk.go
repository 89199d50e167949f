// Package rangewalk translates an (addr, size) byte-range request into the
// sequence of per-page spans a pagestore.Store must touch, using shift/mask
// arithmetic made possible by PageSize being a power of two.
package rangewalk

import "math/bits"

// Span is one page-local slice of a larger request: bytes [Lo, Hi] of page
// PageIdx, landing at [BufOff, BufOff+Hi-Lo] in the caller's flat buffer.
type Span struct {
	PageIdx int
	Lo, Hi  int // inclusive, in [0, pageSize)
	BufOff  int
}

// Walker decomposes addresses for a fixed page size.
type Walker struct {
	pageSize  int
	pageShift uint
	mask      int
}

// New builds a Walker for the given page size, which must be a power of two.
func New(pageSize int) Walker {
	return Walker{
		pageSize:  pageSize,
		pageShift: uint(bits.TrailingZeros(uint(pageSize))),
		mask:      pageSize - 1,
	}
}

// Spans returns the ordered list of page-local spans covering [addr,
// addr+size), split into a head span, zero or more full middle pages, and a
// tail span. The caller is responsible for checking size > 0 beforehand;
// Spans panics otherwise, since this is an internal contract violation, not
// a runtime error.
func (w Walker) Spans(addr, size int) []Span {
	if size <= 0 {
		panic("rangewalk: size must be > 0")
	}
	start := addr
	end := addr + size - 1

	startPage := start >> w.pageShift
	endPage := end >> w.pageShift
	inStart := start & w.mask
	inEnd := end & w.mask

	if startPage == endPage {
		return []Span{{PageIdx: startPage, Lo: inStart, Hi: inEnd, BufOff: 0}}
	}

	spans := make([]Span, 0, endPage-startPage+1)
	bufOff := 0

	// Head.
	spans = append(spans, Span{PageIdx: startPage, Lo: inStart, Hi: w.pageSize - 1, BufOff: bufOff})
	bufOff += w.pageSize - inStart

	// Middle: full pages strictly between start and end.
	for idx := startPage + 1; idx < endPage; idx++ {
		spans = append(spans, Span{PageIdx: idx, Lo: 0, Hi: w.pageSize - 1, BufOff: bufOff})
		bufOff += w.pageSize
	}

	// Tail.
	spans = append(spans, Span{PageIdx: endPage, Lo: 0, Hi: inEnd, BufOff: bufOff})

	return spans
}

// Len returns Hi-Lo+1, the number of bytes a span covers.
func (s Span) Len() int { return s.Hi - s.Lo + 1 }
