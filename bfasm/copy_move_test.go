package bfasm_test

import (
	"testing"

	"github.com/KittydaCat/BunF/bfasm"
	"github.com/KittydaCat/BunF/value"
)

// TestCharToU32Reclassifies exercises one of the members of the operation
// catalogue (spec.md §6.1) that lang/bunf never has occasion to emit: a
// direct Char-to-U32 shape coercion. It is a pure shadow reclassification,
// since Char and U32 share the same one-cell encoding.
func TestCharToU32Reclassifies(t *testing.T) {
	m := bfasm.NewMachine()
	mustApply(t, m, bfasm.SetOp{Index: 0, Value: value.CharVal('A')})
	if err := m.CharToU32(0); err != nil {
		t.Fatalf("CharToU32: %v", err)
	}
	if m.Cells[0] != value.U32Val('A') {
		t.Errorf("cells[0] = %s, want U32(%d)", m.Cells[0], byte('A'))
	}
	runAndCheckSync(t, m)
}

func TestCharToU32RejectsNonChar(t *testing.T) {
	m := bfasm.NewMachine()
	mustApply(t, m, bfasm.SetOp{Index: 0, Value: value.U32Val(1)})
	if err := m.CharToU32(0); err == nil {
		t.Fatal("CharToU32 of a non-Char slot should fail")
	}
}

// TestInsertECShiftsTailRight exercises InsertEC directly: inserting
// Empty slots ahead of a live value must shift that value's physical
// encoding right without otherwise disturbing it, and leave the cursor at
// the insertion point per the resolved open question (see DESIGN.md).
func TestInsertECShiftsTailRight(t *testing.T) {
	m := bfasm.NewMachine()
	mustApply(t, m, bfasm.SetOp{Index: 0, Value: value.U32Val(7)})
	mustApply(t, m, bfasm.InsertECOp{Index: 0, N: 2})
	if len(m.Cells) != 3 {
		t.Fatalf("len(Cells) = %d, want 3", len(m.Cells))
	}
	if m.Cells[0].Kind != value.KindEmpty || m.Cells[1].Kind != value.KindEmpty {
		t.Errorf("cells[0:2] = %v, want two Empty slots", m.Cells[:2])
	}
	if m.Cells[2] != value.U32Val(7) {
		t.Errorf("cells[2] = %s, want U32(7)", m.Cells[2])
	}
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 (InsertEC leaves it at the insertion point)", m.Cursor)
	}
	runAndCheckSync(t, m)
}

func TestInsertECZeroIsANoOp(t *testing.T) {
	m := bfasm.NewMachine()
	mustApply(t, m, bfasm.SetOp{Index: 0, Value: value.U32Val(3)})
	before := append([]value.Value{}, m.Cells...)
	mustApply(t, m, bfasm.InsertECOp{Index: 0, N: 0})
	if len(m.Cells) != len(before) || m.Cells[0] != before[0] {
		t.Errorf("InsertEC(i, 0) changed cells: got %v, want %v", m.Cells, before)
	}
}
