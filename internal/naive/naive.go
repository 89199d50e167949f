// Package naive is a dense-array reference engine: it exists only as an
// oracle for differential testing against the paged engine, never as a
// production code path.
package naive

// Memory is a flat byte-addressable array with parallel provenance ids,
// supporting the same linear undo/redo journal semantics as the paged
// engine but with no sparse allocation at all.
type Memory struct {
	data         []byte
	ids          []uint32
	defaultValue byte
	records      []record
	cursor       int
}

type record struct {
	addr    int
	data    []byte
	oldData []byte
	oldIDs  []uint32
}

// New allocates a fully dense address space of the given size.
func New(spaceSize int, defaultValue byte) *Memory {
	m := &Memory{
		data:         make([]byte, spaceSize),
		ids:          make([]uint32, spaceSize),
		defaultValue: defaultValue,
	}
	for i := range m.data {
		m.data[i] = defaultValue
	}
	return m
}

// Read returns size bytes starting at addr.
func (m *Memory) Read(addr, size int) []byte {
	out := make([]byte, size)
	copy(out, m.data[addr:addr+size])
	return out
}

// ReadTransactionIDs returns size provenance ids starting at addr.
func (m *Memory) ReadTransactionIDs(addr, size int) []uint32 {
	out := make([]uint32, size)
	copy(out, m.ids[addr:addr+size])
	return out
}

// CurrentTransactionID returns the journal cursor.
func (m *Memory) CurrentTransactionID() int { return m.cursor }

// AddTransaction appends and applies a new record, mirroring the paged
// engine's acceptance rules exactly so the two can be driven with an
// identical operation trace.
func (m *Memory) AddTransaction(addr int, data []byte) error {
	if m.cursor != len(m.records) {
		return errCursorNotAtTip
	}
	if len(data) == 0 {
		return errEmptyPayload
	}
	if addr+len(data) >= len(m.data) {
		return errRangeViolation
	}
	rec := record{
		addr:    addr,
		data:    append([]byte(nil), data...),
		oldData: m.Read(addr, len(data)),
		oldIDs:  m.ReadTransactionIDs(addr, len(data)),
	}
	m.records = append(m.records, rec)
	return m.Next()
}

// Next applies the pending record at the cursor, if any.
func (m *Memory) Next() error {
	if m.cursor == len(m.records) {
		return errOutOfRangeStep
	}
	rec := m.records[m.cursor]
	copy(m.data[rec.addr:], rec.data)
	stamp := uint32(m.cursor + 1)
	for i := range rec.data {
		m.ids[rec.addr+i] = stamp
	}
	m.cursor++
	return nil
}

// Previous reverts the record just before the cursor, if any.
func (m *Memory) Previous() error {
	if m.cursor == 0 {
		return errOutOfRangeStep
	}
	rec := m.records[m.cursor-1]
	copy(m.data[rec.addr:], rec.oldData)
	copy(m.ids[rec.addr:], rec.oldIDs)
	m.cursor--
	return nil
}
