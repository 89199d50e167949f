package memtx

import (
	"bytes"
	"log"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/ravelind/memtx/internal/naive"
	"github.com/ravelind/memtx/internal/testhelper"
)

func TestNewRejectsNonPowerOfTwoDimensions(t *testing.T) {
	if _, err := New(Config{NumPages: 3, PageSize: 4}); err == nil {
		t.Error("expected error for non-power-of-two NumPages")
	}
	if _, err := New(Config{NumPages: 4, PageSize: 3}); err == nil {
		t.Error("expected error for non-power-of-two PageSize")
	}
}

func TestNewAssignsDistinctIDs(t *testing.T) {
	a, err := New(Config{NumPages: 4, PageSize: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(Config{NumPages: 4, PageSize: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.ID() == b.ID() {
		t.Error("two Memory instances got the same id")
	}
}

func TestStatsTracksAllocationAndCursor(t *testing.T) {
	m, err := New(Config{NumPages: 4, PageSize: 4, DefaultValue: 0xAB})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.Stats(); got != (Stats{}) {
		t.Fatalf("fresh Stats = %+v, want zero value", got)
	}
	if err := m.AddTransaction(2, []byte{1, 2, 3}, "t1"); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	want := Stats{AllocatedPages: 2, JournalLen: 1, Cursor: 1}
	if got := m.Stats(); got != want {
		t.Fatalf("Stats = %+v, want %+v", got, want)
	}
	if err := m.PreviousTransaction(); err != nil {
		t.Fatalf("PreviousTransaction: %v", err)
	}
	if got := m.Stats(); got.Cursor != 0 || got.JournalLen != 1 {
		t.Fatalf("Stats after undo = %+v", got)
	}
}

func TestTransactionCodeLocationIsReadable(t *testing.T) {
	m, err := New(Config{NumPages: 4, PageSize: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.AddTransaction(0, []byte{1, 2}, "loc-a"); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := m.AddTransaction(2, []byte{3, 4}, "loc-b"); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if got, ok := m.TransactionCodeLocation(0); !ok || got != "loc-a" {
		t.Fatalf("TransactionCodeLocation(0) = %q, %v, want loc-a, true", got, ok)
	}
	if got, ok := m.TransactionCodeLocation(1); !ok || got != "loc-b" {
		t.Fatalf("TransactionCodeLocation(1) = %q, %v, want loc-b, true", got, ok)
	}
	if _, ok := m.TransactionCodeLocation(2); ok {
		t.Fatal("TransactionCodeLocation(2) = ok, want false (out of range)")
	}
	if _, ok := m.TransactionCodeLocation(-1); ok {
		t.Fatal("TransactionCodeLocation(-1) = ok, want false (out of range)")
	}
}

func TestLoggerLinesAreTaggedWithDistinctIDs(t *testing.T) {
	var buf bytes.Buffer
	shared := log.New(&buf, "", 0)

	a, err := New(Config{NumPages: 2, PageSize: 2, Logger: shared})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(Config{NumPages: 2, PageSize: 2, Logger: shared})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := a.AddTransaction(0, []byte{1}, "a"); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := b.AddTransaction(0, []byte{1}, "b"); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, a.ID().String()) {
		t.Fatalf("log output missing a's id:\n%s", out)
	}
	if !strings.Contains(out, b.ID().String()) {
		t.Fatalf("log output missing b's id:\n%s", out)
	}
}

// TestScenarios drives the named scenarios in testdata/scenarios.yaml,
// loaded via the testhelper package.
func TestScenarios(t *testing.T) {
	fx := testhelper.Load(t)

	for _, sc := range fx.Scenarios {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			m, err := New(Config{
				NumPages:     fx.NumPages,
				PageSize:     fx.PageSize,
				DefaultValue: byte(fx.DefaultValue),
			})
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			for _, op := range sc.Ops {
				switch {
				case op.Add != nil:
					data := testhelper.ByteSlice(op.Add.Data)
					err := m.AddTransaction(op.Add.Addr, data, CodeLocation(op.Add.CodeLocation))
					if op.Add.WantError {
						if err == nil {
							t.Fatalf("AddTransaction(%d, %v): expected error, got nil", op.Add.Addr, op.Add.Data)
						}
					} else if err != nil {
						t.Fatalf("AddTransaction(%d, %v): %v", op.Add.Addr, op.Add.Data, err)
					}
				case op.Previous:
					if err := m.PreviousTransaction(); err != nil {
						t.Fatalf("PreviousTransaction: %v", err)
					}
				case op.Next:
					if err := m.NextTransaction(); err != nil {
						t.Fatalf("NextTransaction: %v", err)
					}
				case op.MoveTo != nil:
					if err := m.MoveToTransaction(*op.MoveTo); err != nil {
						t.Fatalf("MoveToTransaction(%d): %v", *op.MoveTo, err)
					}
				}
			}

			for _, chk := range sc.Checks {
				switch {
				case chk.Read != nil:
					got := m.Read(chk.Read.Addr, chk.Read.Size)
					want := testhelper.ByteSlice(chk.Want)
					if !bytes.Equal(got, want) {
						t.Errorf("Read(%d, %d) = %v, want %v", chk.Read.Addr, chk.Read.Size, got, want)
					}
				case chk.ReadIDs != nil:
					got := m.ReadTransactionIDs(chk.ReadIDs.Addr, chk.ReadIDs.Size)
					want := testhelper.IDSlice(chk.Want)
					if !reflect.DeepEqual(got, want) {
						t.Errorf("ReadTransactionIDs(%d, %d) = %v, want %v", chk.ReadIDs.Addr, chk.ReadIDs.Size, got, want)
					}
				}
			}
		})
	}
}

// TestOracleEquivalence drives the paged engine and the dense naive oracle
// through identical randomized traces of accepted writes and checks that
// every read agrees.
func TestOracleEquivalence(t *testing.T) {
	const numPages, pageSize = 8, 16
	const space = numPages * pageSize

	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		paged, err := New(Config{NumPages: numPages, PageSize: pageSize, DefaultValue: 0x00})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		oracle := naive.New(space, 0x00)

		for step := 0; step < 30; step++ {
			addr := rng.Intn(space)
			maxLen := space - addr - 1
			if maxLen <= 0 {
				continue
			}
			n := 1 + rng.Intn(maxLen)
			data := make([]byte, n)
			rng.Read(data)

			pagedErr := paged.AddTransaction(addr, data, "fuzz")
			oracleErr := oracle.AddTransaction(addr, data)
			if (pagedErr == nil) != (oracleErr == nil) {
				t.Fatalf("trial %d step %d: paged err=%v oracle err=%v", trial, step, pagedErr, oracleErr)
			}
		}

		got := paged.Read(0, space)
		want := oracle.Read(0, space)
		if !bytes.Equal(got, want) {
			t.Fatalf("trial %d: byte mismatch\n got=%v\nwant=%v", trial, got, want)
		}
		gotIDs := paged.ReadTransactionIDs(0, space)
		wantIDs := oracle.ReadTransactionIDs(0, space)
		if !reflect.DeepEqual(gotIDs, wantIDs) {
			t.Fatalf("trial %d: id mismatch\n got=%v\nwant=%v", trial, gotIDs, wantIDs)
		}
	}
}

// FuzzUndoRedoReversibility checks invariant 4: undoing to zero then
// redoing back to the original cursor restores byte-for-byte and
// id-for-id identical state, for any accepted sequence of writes the fuzzer
// discovers.
func FuzzUndoRedoReversibility(f *testing.F) {
	f.Add(uint64(1), 2, 3)
	f.Add(uint64(42), 1, 9)

	f.Fuzz(func(t *testing.T, seed uint64, numWrites int, addrSeed int) {
		if numWrites <= 0 || numWrites > 20 {
			t.Skip("out of range")
		}
		const numPages, pageSize = 4, 8
		const space = numPages * pageSize

		m, err := New(Config{NumPages: numPages, PageSize: pageSize, DefaultValue: 0x7F})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		rng := rand.New(rand.NewSource(int64(seed)))

		applied := 0
		for i := 0; i < numWrites; i++ {
			addr := (addrSeed + i) % space
			if addr < 0 {
				addr += space
			}
			maxLen := space - addr - 1
			if maxLen <= 0 {
				continue
			}
			n := 1 + rng.Intn(maxLen)
			data := make([]byte, n)
			rng.Read(data)
			if err := m.AddTransaction(addr, data, "fuzz"); err == nil {
				applied++
			}
		}
		if applied == 0 {
			t.Skip("no accepted writes")
		}

		before := m.Read(0, space)
		beforeIDs := m.ReadTransactionIDs(0, space)
		originalCursor := m.CurrentTransactionID()

		for m.CurrentTransactionID() > 0 {
			if err := m.PreviousTransaction(); err != nil {
				t.Fatalf("PreviousTransaction: %v", err)
			}
		}
		for m.CurrentTransactionID() < originalCursor {
			if err := m.NextTransaction(); err != nil {
				t.Fatalf("NextTransaction: %v", err)
			}
		}

		after := m.Read(0, space)
		afterIDs := m.ReadTransactionIDs(0, space)
		if !bytes.Equal(before, after) {
			t.Fatalf("byte state not restored: before=%v after=%v", before, after)
		}
		if !reflect.DeepEqual(beforeIDs, afterIDs) {
			t.Fatalf("id state not restored: before=%v after=%v", beforeIDs, afterIDs)
		}
	})
}
