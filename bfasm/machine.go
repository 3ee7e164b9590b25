package bfasm

import (
	"github.com/google/uuid"

	"github.com/KittydaCat/BunF/internal/bfw"
	"github.com/KittydaCat/BunF/tape"
	"github.com/KittydaCat/BunF/value"
)

// Machine is the shadow machine: the compile-time mirror of the runtime
// tape, kept in lock-step with the emitted code. Cells holds the logical
// value sequence; ExpectedIn/ExpectedOut accumulate the I/O trace the
// emitted code would produce if run from a zeroed tape.
//
// Values are treated as immutable: an operation that changes a slot always
// replaces the Value there wholesale rather than mutating its Str/Arr
// payload in place, so a Machine can be snapshotted with a shallow copy of
// Cells.
type Machine struct {
	Cells       []value.Value
	Cursor      int
	ExpectedIn  []byte
	ExpectedOut []byte

	SessionID uuid.UUID

	code  tape.Program
	gate  *bfw.Gate
	debug bool
}

// NewMachine creates an empty shadow machine: no cells, cursor at the
// origin, emission enabled.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{SessionID: newSessionID()}
	m.gate = bfw.NewGate(&m.code)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Code returns the emitted program so far.
func (m *Machine) Code() tape.Program { return m.code }

// snapshot clones the shadow for a control-structure dry-run: cells and
// cursor are copied, the code buffer starts empty, I/O traces start empty.
// The clone's own gate is fresh and enabled, so the dry-run always
// produces a code fragment regardless of the outer machine's emission
// state.
func (m *Machine) snapshot() *Machine {
	cp := &Machine{
		Cells:     append([]value.Value(nil), m.Cells...),
		Cursor:    m.Cursor,
		SessionID: m.SessionID,
		debug:     m.debug,
	}
	cp.gate = bfw.NewGate(&cp.code)
	return cp
}

// runSuppressed runs fn with code emission disabled, then restores the
// previous emission state. Cells, Cursor, and the I/O traces still update
// normally — only the code buffer does not grow. This is how BoolIf,
// BoolWhile, and CharMatch re-execute a compile-time-known body against the
// outer shadow without duplicating the fragment already wrapped into the
// outer code from the dry-run snapshot.
func (m *Machine) runSuppressed(fn func()) {
	prev := m.gate.Enabled
	m.gate.Enabled = false
	fn()
	m.gate.Enabled = prev
}

func (m *Machine) emit(ops ...tape.Instr) { m.gate.Emit(ops...) }

func (m *Machine) comment(s string) { m.gate.Comment(s) }

// ensureLen pads Cells with Empty up to n slots, per the resolved open
// question that Set (and anything built on it) pads rather than errors
// when asked to touch an index beyond the current length.
func (m *Machine) ensureLen(n int) {
	for len(m.Cells) < n {
		m.Cells = append(m.Cells, value.Empty)
	}
}

func allEmpty(vs []value.Value) bool {
	for _, v := range vs {
		if v.Kind != value.KindEmpty {
			return false
		}
	}
	return true
}

func kindsOf(vs []value.Value) []value.Kind {
	ks := make([]value.Kind, len(vs))
	for i, v := range vs {
		ks[i] = v.Kind
	}
	return ks
}

// stepRightTemplate returns the tape primitives that move the physical
// cursor from the first cell of a value of kind k to the first cell of the
// next value, per the cursor-motion template table.
func stepRightTemplate(k value.Kind) []tape.Instr {
	switch k {
	case value.KindI32:
		return []tape.Instr{tape.OpRight, tape.OpRight}
	case value.KindFString, value.KindIString, value.KindArray:
		return []tape.Instr{
			tape.OpRight, tape.OpRight,
			tape.OpLoopBegin, tape.OpRight, tape.OpRight, tape.OpLoopEnd,
			tape.OpRight, tape.OpRight,
		}
	default:
		return []tape.Instr{tape.OpRight}
	}
}

// stepLeftTemplate is stepRightTemplate's mirror image for moving from the
// first cell of a value of kind k to the first cell of the previous value.
func stepLeftTemplate(k value.Kind) []tape.Instr {
	switch k {
	case value.KindI32:
		return []tape.Instr{tape.OpLeft, tape.OpLeft}
	case value.KindFString, value.KindIString, value.KindArray:
		return []tape.Instr{
			tape.OpLeft, tape.OpLeft, tape.OpLeft, tape.OpLeft,
			tape.OpLoopBegin, tape.OpLeft, tape.OpLeft, tape.OpLoopEnd,
		}
	default:
		return []tape.Instr{tape.OpLeft}
	}
}

// MoveTo emits the LEFT/RIGHT primitives that walk the physical cursor from
// the current logical position to t, stepping over each intermediate
// value by its canonical width, and updates Cursor to t.
func (m *Machine) MoveTo(t int) {
	for m.Cursor < t {
		m.emit(stepRightTemplate(m.Cells[m.Cursor].Kind)...)
		m.Cursor++
	}
	for m.Cursor > t {
		m.Cursor--
		m.emit(stepLeftTemplate(m.Cells[m.Cursor].Kind)...)
	}
}

// repeatInstr returns n copies of op.
func repeatInstr(op tape.Instr, n int) []tape.Instr {
	out := make([]tape.Instr, n)
	for i := range out {
		out[i] = op
	}
	return out
}

// relMove emits the LEFT/RIGHT run that moves the physical cursor by a
// statically-known number of cells within a single value's own encoding
// (not a logical MoveTo, which steps over whole values).
func (m *Machine) relMove(from, to int) {
	d := to - from
	switch {
	case d > 0:
		m.emit(repeatInstr(tape.OpRight, d)...)
	case d < 0:
		m.emit(repeatInstr(tape.OpLeft, -d)...)
	}
}

// copyCell emits the classic three-cell non-destructive copy idiom: it
// copies the value of the cell at the current cursor position into the
// cell toOff away, using the cell scratchOff away as a temporary, and
// leaves the cursor back where it started. toOff and scratchOff are
// relative offsets from the starting position (offset 0).
func (m *Machine) copyCell(toOff, scratchOff int) {
	m.emit(tape.OpLoopBegin, tape.OpDec)
	m.relMove(0, toOff)
	m.emit(tape.OpInc)
	m.relMove(toOff, scratchOff)
	m.emit(tape.OpInc)
	m.relMove(scratchOff, 0)
	m.emit(tape.OpLoopEnd)

	m.relMove(0, scratchOff)
	m.emit(tape.OpLoopBegin, tape.OpDec)
	m.relMove(scratchOff, 0)
	m.emit(tape.OpInc)
	m.relMove(0, scratchOff)
	m.emit(tape.OpLoopEnd)
	m.relMove(scratchOff, 0)
}

// moveCell emits the classic destructive move idiom: it transfers the
// value of the cell at the current cursor position into the cell toOff
// away (consuming the source), and leaves the cursor back where it
// started.
func (m *Machine) moveCell(toOff int) {
	m.emit(tape.OpLoopBegin, tape.OpDec)
	m.relMove(0, toOff)
	m.emit(tape.OpInc)
	m.relMove(toOff, 0)
	m.emit(tape.OpLoopEnd)
}

// zeroCell emits a `[-]` zeroing loop over the cell at the current cursor
// position.
func (m *Machine) zeroCell() {
	m.emit(tape.OpLoopBegin, tape.OpDec, tape.OpLoopEnd)
}
