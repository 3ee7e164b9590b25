package bfasm_test

import (
	"testing"

	"github.com/KittydaCat/BunF/bfasm"
	"github.com/KittydaCat/BunF/value"
)

func TestNewMachineStartsEmpty(t *testing.T) {
	m := bfasm.NewMachine()
	if len(m.Cells) != 0 {
		t.Errorf("fresh machine has %d cells, want 0", len(m.Cells))
	}
	if m.Cursor != 0 {
		t.Errorf("fresh machine cursor = %d, want 0", m.Cursor)
	}
	if len(m.Code()) != 0 {
		t.Errorf("fresh machine has emitted code %q, want none", m.Code())
	}
}

func TestMoveToAcrossMixedWidths(t *testing.T) {
	m := bfasm.NewMachine()
	mustApply(t, m,
		bfasm.SetOp{Index: 0, Value: value.U32Val(1)},
		bfasm.SetOp{Index: 1, Value: value.I32Val(-4)},
		bfasm.SetOp{Index: 2, Value: value.FString([]byte("hi"))},
		bfasm.SetOp{Index: 3, Value: value.CharVal('z')},
		bfasm.MoveToOp{Index: 0},
	)
	if m.Cursor != 0 {
		t.Fatalf("cursor after MoveTo(0) = %d, want 0", m.Cursor)
	}
	runAndCheckSync(t, m)
}

func TestSessionIDIsStable(t *testing.T) {
	m := bfasm.NewMachine()
	id := m.SessionID
	mustApply(t, m, bfasm.SetOp{Index: 0, Value: value.U32Val(1)})
	if m.SessionID != id {
		t.Error("SessionID changed after an operation")
	}
}

func TestWithCapacityPadsEmpty(t *testing.T) {
	m := bfasm.NewMachine(bfasm.WithCapacity(4))
	if len(m.Cells) != 4 {
		t.Fatalf("WithCapacity(4) gave %d cells, want 4", len(m.Cells))
	}
	for i, c := range m.Cells {
		if c.Kind != value.KindEmpty {
			t.Errorf("cell %d = %s, want Empty", i, c)
		}
	}
}
