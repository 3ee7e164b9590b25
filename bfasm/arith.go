package bfasm

import (
	"github.com/KittydaCat/BunF/tape"
	"github.com/KittydaCat/BunF/value"
)

// emitRaw emits a literal Brainfuck fragment, one tape.Instr per byte. Used
// for the hand-tuned arithmetic/comparison idioms below, where the bracket
// structure is dense enough that building it one relMove/loop call at a time
// would obscure rather than clarify the algorithm.
func (m *Machine) emitRaw(code string) {
	instrs := make([]tape.Instr, len(code))
	for i := 0; i < len(code); i++ {
		instrs[i] = tape.Instr(code[i])
	}
	m.emit(instrs...)
}

// U32Add requires [U32, U32]. Result at i is the sum; i+1 becomes Empty.
func (m *Machine) U32Add(i int) error {
	m.ensureLen(i + 2)
	a, b := m.Cells[i], m.Cells[i+1]
	if a.Kind != value.KindU32 || b.Kind != value.KindU32 {
		return &TypeMismatchError{Op: "U32Add", Index: i,
			Expected: []value.Kind{value.KindU32, value.KindU32},
			Found:    []value.Kind{a.Kind, b.Kind}}
	}

	m.logOp("U32Add", i)
	m.MoveTo(i)
	m.emit(tape.OpRight)
	m.emit(tape.OpLoopBegin, tape.OpDec)
	m.emit(tape.OpLeft, tape.OpInc, tape.OpRight)
	m.emit(tape.OpLoopEnd)
	m.emit(tape.OpLeft)

	m.Cells[i] = value.U32Val(a.U32 + b.U32)
	m.Cells[i+1] = value.Empty
	return nil
}

// U32SubUnchecked requires [U32, U32]. Result at i is a-b; i+1 becomes
// Empty. If a<b the shadow still emits the same decrement loop (which at
// runtime fails with the tape's negative-cell error once a reaches zero),
// records 0 at i, and reports an Underflow op-error.
func (m *Machine) U32SubUnchecked(i int) error {
	m.ensureLen(i + 2)
	a, b := m.Cells[i], m.Cells[i+1]
	if a.Kind != value.KindU32 || b.Kind != value.KindU32 {
		return &TypeMismatchError{Op: "U32SubUnchecked", Index: i,
			Expected: []value.Kind{value.KindU32, value.KindU32},
			Found:    []value.Kind{a.Kind, b.Kind}}
	}

	m.logOp("U32SubUnchecked", i)
	m.MoveTo(i)
	m.emit(tape.OpRight)
	m.emit(tape.OpLoopBegin, tape.OpDec)
	m.emit(tape.OpLeft, tape.OpDec, tape.OpRight)
	m.emit(tape.OpLoopEnd)
	m.emit(tape.OpLeft)

	var opErr error
	if a.U32 < b.U32 {
		opErr = &UnderflowError{Index: i, A: a.U32, B: b.U32}
		m.Cells[i] = value.U32Val(0)
	} else {
		m.Cells[i] = value.U32Val(a.U32 - b.U32)
	}
	m.Cells[i+1] = value.Empty
	return opErr
}

// I32Add requires [I32, I32, Empty×7] (nine logical slots: the two I32
// operands, each a sign cell plus a magnitude cell, then seven scratch Empty
// cells, eleven physical cells in all). Result (I32) replaces the first
// operand at i; the rest of that region collapses to Empty, preserving its
// physical width (11 cells), and cells past it keep their places.
//
// The emitted idiom is the original assembly's sign-copy / sign-xor /
// conditional-subtract routine, ported instruction for instruction: copy
// both signs into scratch, xor them to test whether the operands disagree
// in sign, and if so subtract the magnitudes instead of adding them,
// copying the surviving sign back over the result.
func (m *Machine) I32Add(i int) error {
	m.ensureLen(i + 9)
	x, y := m.Cells[i], m.Cells[i+1]
	rest := m.Cells[i+2 : i+9]
	if x.Kind != value.KindI32 || y.Kind != value.KindI32 || !allEmpty(rest) {
		return &TypeMismatchError{Op: "I32Add", Index: i,
			Expected: append([]value.Kind{value.KindI32, value.KindI32}, repeatKind(value.KindEmpty, 7)...),
			Found:    append([]value.Kind{x.Kind, y.Kind}, kindsOf(rest)...)}
	}

	m.logOp("I32Add", i)
	m.MoveTo(i)

	// copy the two signs into scratch
	m.emitRaw("[->>>>+>+<<<<<]>>>>>[-<<<<<+>>>>>]<<<[->>>+>+<<<<]>>>>[-<<<<+>>>>]<")
	// xor them
	m.emitRaw("[<[->-<]>[-<+>]]<")
	// if the signs differed, subtract the magnitudes instead of adding
	m.emitRaw("[[<[<<[->>->>]>>>>]>[>]<[>]<[->>>>]<<<<]")
	m.emitRaw("<[[-<<+>>]<<<[-]>>[-<<+>>]>]<[-]>>]")
	// add (no-op if signs differed) and drop the extra sign cell
	m.emitRaw("<[-<<+>>]<[-]<<")

	sum := x.I32 + y.I32
	m.Cells = append(append(append(append([]value.Value{}, m.Cells[:i]...),
		value.I32Val(sum), value.Empty, value.Empty), m.Cells[i+2:i+9]...), m.Cells[i+9:]...)
	return nil
}

// comparisonOp shares the body of GreaterThan/LessThan/Equals: all three
// require [U32, Empty, U32, Empty, Empty], leave a Bool result at i, clear
// i+2, and leave the cursor at i.
func (m *Machine) comparisonOp(opName, code string, startOffset int, i int, result func(a, b uint32) bool) error {
	m.ensureLen(i + 5)
	a, gap1, b, gap2, gap3 := m.Cells[i], m.Cells[i+1], m.Cells[i+2], m.Cells[i+3], m.Cells[i+4]
	if a.Kind != value.KindU32 || gap1.Kind != value.KindEmpty || b.Kind != value.KindU32 ||
		gap2.Kind != value.KindEmpty || gap3.Kind != value.KindEmpty {
		return &TypeMismatchError{Op: opName, Index: i,
			Expected: []value.Kind{value.KindU32, value.KindEmpty, value.KindU32, value.KindEmpty, value.KindEmpty},
			Found:    []value.Kind{a.Kind, gap1.Kind, b.Kind, gap2.Kind, gap3.Kind}}
	}

	m.logOp(opName, i)
	m.MoveTo(i + startOffset)
	m.emitRaw(code)
	m.Cursor = i

	m.Cells[i] = value.BoolVal(result(a.U32, b.U32))
	m.Cells[i+2] = value.Empty
	return nil
}

// GreaterThan requires [U32, Empty, U32, Empty, Empty]. Result (Bool) at i;
// i+2 becomes Empty. Races the two counters toward zero, decrementing one
// of two running "alive" flags as each counter empties, so the flag left
// standing when both hit zero records which operand ran out last.
func (m *Machine) GreaterThan(i int) error {
	return m.comparisonOp("GreaterThan",
		"+<<[-<<[->]>]>>[<<<<[>+<[-]]>>>]>-<<[-]<[-<+>]<",
		4, i, func(a, b uint32) bool { return a > b })
}

// LessThan requires [U32, Empty, U32, Empty, Empty]. Result (Bool) at i;
// i+2 becomes Empty.
func (m *Machine) LessThan(i int) error {
	return m.comparisonOp("LessThan",
		"+<[-<<[->]>]>>[<<+>>>]<-<[-]<<[-]>[-<+>]<",
		3, i, func(a, b uint32) bool { return a < b })
}

// Equals requires [U32, Empty, U32, Empty, Empty]. Result (Bool) at i; i+2
// becomes Empty.
func (m *Machine) Equals(i int) error {
	return m.comparisonOp("Equals",
		"+<<[-<<[->]>]>>[<<<+<[>-<[-]]>>>]>-<<[-]<[-<+>]<",
		4, i, func(a, b uint32) bool { return a == b })
}
