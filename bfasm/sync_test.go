package bfasm_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/KittydaCat/BunF/bfasm"
	"github.com/KittydaCat/BunF/tape"
	"github.com/KittydaCat/BunF/value"
)

// runAndCheckSync runs m's emitted code from a zeroed tape interpreter and
// checks Testable Property 1: the run's physical tape, cursor, and output
// match what the shadow's cells/cursor/ExpectedOut say they should be. I32
// slots are compared via value.DecodeI32 so the negative-zero quirk (design
// note in spec.md §9) doesn't fail the comparison.
func runAndCheckSync(t *testing.T, m *bfasm.Machine) *tape.Interp {
	t.Helper()

	var out bytes.Buffer
	in := tape.New(tape.WithInput(bytes.NewReader(m.ExpectedIn)), tape.WithOutput(&out))
	if err := in.Run(m.Code()); err != nil {
		t.Fatalf("running emitted code: %v", err)
	}

	offset := 0
	for idx, v := range m.Cells {
		w := value.Width(v)
		got := make([]uint32, w)
		for k := 0; k < w; k++ {
			if offset+k < len(in.Tape) {
				got[k] = uint32(in.Tape[offset+k])
			}
		}
		if v.Kind == value.KindI32 {
			if gotVal := value.DecodeI32(got[0], got[1]); gotVal != v.I32 {
				t.Errorf("cell %d: I32 decoded %d, want %d (raw %v)", idx, gotVal, v.I32, got)
			}
		} else {
			want := value.Encode(v)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("cell %d (%s): physical %v, want %v", idx, v.Kind, got, want)
			}
		}
		offset += w
	}
	for i := offset; i < len(in.Tape); i++ {
		if in.Tape[i] != 0 {
			t.Errorf("trailing physical cell %d not zero: %d", i, in.Tape[i])
		}
	}

	wantCursor := 0
	for i := 0; i < m.Cursor && i < len(m.Cells); i++ {
		wantCursor += value.Width(m.Cells[i])
	}
	if in.Cursor != wantCursor {
		t.Errorf("physical cursor = %d, want %d (logical cursor %d)", in.Cursor, wantCursor, m.Cursor)
	}

	if out.String() != string(m.ExpectedOut) {
		t.Errorf("output = %q, want %q", out.String(), string(m.ExpectedOut))
	}
	return in
}

func mustApply(t *testing.T, m *bfasm.Machine, ops ...bfasm.Op) {
	t.Helper()
	if _, err := bfasm.Exec(ops, m); err != nil {
		t.Fatalf("Exec: %v", err)
	}
}

func TestSyncSetAndArith(t *testing.T) {
	m := bfasm.NewMachine()
	mustApply(t, m,
		bfasm.SetOp{Index: 0, Value: value.U32Val(2)},
		bfasm.SetOp{Index: 1, Value: value.U32Val(3)},
		bfasm.U32AddOp{Index: 0},
	)
	runAndCheckSync(t, m)
}

func TestSyncI32AddAcrossSigns(t *testing.T) {
	pairs := [][2]int32{{3, 5}, {-3, 5}, {-3, -5}, {5, -3}, {0, 0}, {0, -5}}
	for _, p := range pairs {
		m := bfasm.NewMachine()
		mustApply(t, m,
			bfasm.SetOp{Index: 0, Value: value.I32Val(p[0])},
			bfasm.SetOp{Index: 1, Value: value.I32Val(p[1])},
			bfasm.I32AddOp{Index: 0},
		)
		runAndCheckSync(t, m)
	}
}

func TestSyncStringIndex(t *testing.T) {
	m := bfasm.NewMachine()
	mustApply(t, m,
		bfasm.SetOp{Index: 0, Value: value.FString([]byte("hello world"))},
		bfasm.SetOp{Index: 1, Value: value.U32Val(1)},
		bfasm.StrIndexOp{Index: 0},
	)
	runAndCheckSync(t, m)
}

// TestSyncI32AddSweep is a small bounded combinatorial sweep over I32
// addition, grounded directly on the original's own i32_addition test
// (_examples/original_source/src/bfasm.rs), which loops x and y each over
// -3..3 and asserts test_run() for every pair.
func TestSyncI32AddSweep(t *testing.T) {
	for x := int32(-3); x < 3; x++ {
		for y := int32(-3); y < 3; y++ {
			m := bfasm.NewMachine()
			mustApply(t, m,
				bfasm.SetOp{Index: 0, Value: value.I32Val(x)},
				bfasm.SetOp{Index: 1, Value: value.I32Val(y)},
				bfasm.I32AddOp{Index: 0},
			)
			runAndCheckSync(t, m)
		}
	}
}

func TestSyncWhileCountdown(t *testing.T) {
	m := bfasm.NewMachine()
	mustApply(t, m,
		bfasm.SetOp{Index: 0, Value: value.BoolVal(true)},
		bfasm.SetOp{Index: 1, Value: value.U32Val(0)},
		bfasm.BoolWhileOp{Index: 0, Body: []bfasm.Op{
			bfasm.ClearOp{Index: 1},
			bfasm.SetOp{Index: 1, Value: value.U32Val(1)},
			bfasm.ClearOp{Index: 0},
			bfasm.SetOp{Index: 0, Value: value.BoolVal(false)},
		}},
	)
	runAndCheckSync(t, m)
}
