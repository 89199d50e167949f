// Package pagestore implements the sparse page array that backs a Memory:
// a fixed number of slots, each either empty (implicitly filled with a
// default byte and zero provenance) or holding one heap-allocated page.
//
// Pages are allocated lazily on first write and are never freed for the
// lifetime of the store — there is no eviction and no persistence here,
// only the minimal sparse layout needed to avoid materializing an address
// space that is mostly untouched.
package pagestore

// Page is one fixed-size slot of the store: PageSize data bytes plus a
// parallel array of transaction ids recording, for each byte, which
// journal record last wrote it (0 = never written).
type Page struct {
	data   []byte
	txnIDs []uint32
}

func newPage(size int, defaultValue byte) *Page {
	p := &Page{
		data:   make([]byte, size),
		txnIDs: make([]uint32, size),
	}
	for i := range p.data {
		p.data[i] = defaultValue
	}
	return p
}
