package bfasm

import (
	"github.com/KittydaCat/BunF/tape"
	"github.com/KittydaCat/BunF/value"
)

// Set constructs v at logical index i. The target run of width(v) logical
// slots starting at i must currently be all Empty; cells beyond the
// current length are padded with Empty first (the resolved reading of the
// "pad vs error" open question — the original source pads).
//
// Construction walks the physical cells left to right emitting the exact
// canonical encoding of v (an INC run per cell, then a RIGHT), which
// produces the variant-specific "constant construction template" §4.3
// describes without needing one hand-written idiom per variant: the
// shadow always knows v's concrete value at Set time, so the cell values
// to increment to are already known outright.
func (m *Machine) Set(i int, v value.Value) error {
	w := value.Width(v)
	m.ensureLen(i + w)

	run := m.Cells[i : i+w]
	if !allEmpty(run) {
		return &TypeMismatchError{
			Op:       "Set",
			Index:    i,
			Expected: repeatKind(value.KindEmpty, w),
			Found:    kindsOf(run),
		}
	}

	m.logOp("Set", i)
	m.MoveTo(i)
	for _, c := range value.Encode(v) {
		m.emit(repeatInstr(tape.OpInc, int(c))...)
		m.emit(tape.OpRight)
	}

	m.Cells = append(append(append([]value.Value{}, m.Cells[:i]...), v), m.Cells[i+w:]...)
	m.Cursor = i + 1
	return nil
}

func repeatKind(k value.Kind, n int) []value.Kind {
	out := make([]value.Kind, n)
	for i := range out {
		out[i] = k
	}
	return out
}

// Clear replaces the value at i with Empty, preserving the value's
// physical width by splitting it into that many logical Empty slots.
// Clearing an already-Empty slot is a programming error, as is clearing an
// IString/Array whose tail is not entirely Empty (dynamic-width clears can
// only run safely at the end of the live tape) — both panic, per §4.4.
//
// All variants are zeroed by the same uniform per-physical-cell `[-]`
// walk rather than the variant-specific sentinel-exploiting idioms the
// original assembly hand-tunes: since the shadow always knows the
// concrete value being cleared, a plain zeroing loop per cell produces the
// identical functional result (testable properties 1 and 3) with far less
// code.
func (m *Machine) Clear(i int) {
	v := m.Cells[i]
	if v.Kind == value.KindEmpty {
		panic("bfasm: Clear of an already-Empty slot")
	}
	if v.Kind == value.KindIString || v.Kind == value.KindArray {
		if !allEmpty(m.Cells[i+1:]) {
			panic("bfasm: Clear of IString/Array requires an all-Empty tail")
		}
	}

	m.logOp("Clear", i)
	w := value.Width(v)
	m.MoveTo(i)
	for c := 0; c < w; c++ {
		m.zeroCell()
		if c < w-1 {
			m.emit(tape.OpRight)
		}
	}

	empties := make([]value.Value, w)
	for j := range empties {
		empties[j] = value.Empty
	}
	m.Cells = append(append(append([]value.Value{}, m.Cells[:i]...), empties...), m.Cells[i+1:]...)
	m.Cursor = i + w - 1
}
