package bfasm

import (
	"github.com/KittydaCat/BunF/tape"
	"github.com/KittydaCat/BunF/value"
)

// CopyVal duplicates the single- or double-cell value at i into i+1,
// leaving the scratch region Empty again. Requires [value, Empty, Empty]
// for U32/Bool/Char, or [I32, Empty, Empty, Empty] for I32 (one extra
// Empty, since the duplicate itself needs two physical cells).
func (m *Machine) CopyVal(i int) error {
	v := m.Cells[i]
	switch v.Kind {
	case value.KindU32, value.KindBool, value.KindChar:
		m.ensureLen(i + 3)
		scratch := m.Cells[i+1 : i+3]
		if !allEmpty(scratch) {
			return &TypeMismatchError{Op: "CopyVal", Index: i,
				Expected: []value.Kind{v.Kind, value.KindEmpty, value.KindEmpty},
				Found:    append([]value.Kind{v.Kind}, kindsOf(scratch)...)}
		}
		m.logOp("CopyVal", i)
		m.MoveTo(i)
		m.copyCell(1, 2)
		m.Cells[i+1] = v
		return nil

	case value.KindI32:
		m.ensureLen(i + 4)
		scratch := m.Cells[i+1 : i+4]
		if !allEmpty(scratch) {
			return &TypeMismatchError{Op: "CopyVal", Index: i,
				Expected: []value.Kind{value.KindI32, value.KindEmpty, value.KindEmpty, value.KindEmpty},
				Found:    append([]value.Kind{value.KindI32}, kindsOf(scratch)...)}
		}
		m.logOp("CopyVal", i)
		m.MoveTo(i)
		// sign cell (phys offset 0 rel. to i's base) -> dup sign (phys 2) via scratch (phys 4)
		m.copyCell(2, 4)
		m.emit(tape.OpRight)
		// magnitude cell (phys 1) -> dup magnitude (phys 1+2=3) via scratch (phys 1+3=4)
		m.copyCell(2, 3)
		m.emit(tape.OpLeft)

		m.Cells = append(append(append([]value.Value{}, m.Cells[:i+1]...), v), m.Cells[i+3:]...)
		return nil

	default:
		return &TypeMismatchError{Op: "CopyVal", Index: i,
			Expected: []value.Kind{value.KindU32, value.KindI32, value.KindBool, value.KindChar},
			Found:    []value.Kind{v.Kind}}
	}
}

// MoveType destructively moves a single-cell value (U32/Bool/Char) from
// src to dst, which must be Empty. Emits a zero-use move loop whose inner
// cursor motion is the ordinary logical MoveTo traversal between src and
// dst.
func (m *Machine) MoveType(src, dst int) error {
	v := m.Cells[src]
	switch v.Kind {
	case value.KindU32, value.KindBool, value.KindChar:
	default:
		return &TypeMismatchError{Op: "MoveType", Index: src,
			Expected: []value.Kind{value.KindU32, value.KindBool, value.KindChar},
			Found:    []value.Kind{v.Kind}}
	}
	m.ensureLen(dst + 1)
	if m.Cells[dst].Kind != value.KindEmpty {
		return &TypeMismatchError{Op: "MoveType", Index: dst,
			Expected: []value.Kind{value.KindEmpty}, Found: []value.Kind{m.Cells[dst].Kind}}
	}

	m.logOp("MoveType", src)
	m.MoveTo(src)
	m.emit(tape.OpLoopBegin, tape.OpDec)
	m.MoveTo(dst)
	m.emit(tape.OpInc)
	m.MoveTo(src)
	m.emit(tape.OpLoopEnd)

	m.Cells[dst] = v
	m.Cells[src] = value.Empty
	return nil
}

// InsertEC inserts n Empty slots at logical index i, shifting every
// value at or after i physically n cells to the right. The shift walks
// the live tail from its rightmost physical cell back to i, moving each
// physical cell n positions right in turn (rightmost first, so no
// not-yet-shifted cell is ever clobbered). Per the resolved open
// question, the cursor ends at i.
func (m *Machine) InsertEC(i, n int) {
	if n <= 0 {
		return
	}
	m.ensureLen(i)
	tail := m.Cells[i:]
	tailWidth := 0
	for _, v := range tail {
		tailWidth += value.Width(v)
	}

	m.logOp("InsertEC", i)
	m.MoveTo(i)
	if tailWidth > 0 {
		m.emit(repeatInstr(tape.OpRight, tailWidth-1)...)
		for step := 0; step < tailWidth; step++ {
			m.moveCell(n)
			if step < tailWidth-1 {
				m.emit(tape.OpLeft)
			}
		}
	}

	empties := make([]value.Value, n)
	for j := range empties {
		empties[j] = value.Empty
	}
	m.Cells = append(append(append([]value.Value{}, m.Cells[:i]...), empties...), m.Cells[i:]...)
	m.Cursor = i
}

// CharToU32 reclassifies the shadow shape at i from Char to U32, keeping
// the same byte value. It is a no-op on the tape: both variants share the
// same one-cell encoding.
func (m *Machine) CharToU32(i int) error {
	v := m.Cells[i]
	if v.Kind != value.KindChar {
		return &TypeMismatchError{Op: "CharToU32", Index: i,
			Expected: []value.Kind{value.KindChar}, Found: []value.Kind{v.Kind}}
	}
	m.Cells[i] = value.U32Val(uint32(v.Char))
	return nil
}
