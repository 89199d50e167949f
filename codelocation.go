package memtx

// CodeLocation is an opaque tag a caller attaches to a transaction — e.g. a
// source file/line or a disassembled instruction address — for attribution
// in a debugger UI. memtx never interprets it; it is stored and returned
// verbatim.
type CodeLocation string
