package bfasm

import (
	"github.com/KittydaCat/BunF/tape"
	"github.com/KittydaCat/BunF/value"
)

// StrIndex requires [IString|FString, U32 k, Empty]. Writes Char(s[k]) at
// i+1. If k == len(s), writes Char(0) and reports InvalidStringIndex as an
// op-error; the cursor ends at i+1. The three emitted fragments walk a
// "ones bridge" k cells deep into the string's reversed physical layout,
// copy the marked char out to i+1, then unwind the bridge.
func (m *Machine) StrIndex(i int) error {
	m.ensureLen(i + 3)
	s := m.Cells[i]
	k := m.Cells[i+1]
	gap := m.Cells[i+2]
	if (s.Kind != value.KindIString && s.Kind != value.KindFString) || k.Kind != value.KindU32 || gap.Kind != value.KindEmpty {
		return &TypeMismatchError{Op: "StrIndex", Index: i,
			Expected: []value.Kind{value.KindIString, value.KindU32, value.KindEmpty},
			Found:    []value.Kind{s.Kind, k.Kind, gap.Kind}}
	}

	m.logOp("StrIndex", i)
	m.MoveTo(i + 1)
	m.emitRaw("[-<<<[<]+[>]>>]")
	m.emitRaw("<<<[<]<[->>[>]>>+>+<<<<[<]<]>>[>]>>>")
	m.emitRaw("[-<<<<[<]<+>>[>]>>>]<<<<[<]>[>->]>>")
	m.Cursor = i + 1

	var opErr error
	var c byte
	if int(k.U32) < len(s.Str) {
		c = s.Str[k.U32]
	} else {
		c = 0
		opErr = &InvalidStringIndexError{Index: i, K: k.U32, Len: len(s.Str)}
	}
	m.Cells[i+1] = value.CharVal(c)
	return opErr
}

// StrPushF requires [IString|FString, Char, Empty]. Prepends the char to
// the front of the string; i+1 and i+2 collapse into the (now wider)
// string slot at i.
func (m *Machine) StrPushF(i int) error {
	m.ensureLen(i + 3)
	s, ch, gap := m.Cells[i], m.Cells[i+1], m.Cells[i+2]
	if (s.Kind != value.KindIString && s.Kind != value.KindFString) || ch.Kind != value.KindChar || gap.Kind != value.KindEmpty {
		return &TypeMismatchError{Op: "StrPushF", Index: i,
			Expected: []value.Kind{value.KindIString, value.KindChar, value.KindEmpty},
			Found:    []value.Kind{s.Kind, ch.Kind, gap.Kind}}
	}

	m.logOp("StrPushF", i)
	m.MoveTo(i + 1)
	m.emitRaw("[-<<+>>]<[->>+<<]>>+>")

	next := s
	next.Str = append([]byte{ch.Char}, s.Str...)
	m.Cells = append(append([]value.Value{}, m.Cells[:i]...), append([]value.Value{next}, m.Cells[i+3:]...)...)
	m.Cursor = i + 1
	return nil
}

// StrPush requires [Empty, Char, IString|FString]. Appends the char to the
// back of the string; i-2 and i-1 collapse into the (now wider) string
// slot, which ends up at logical index i-2.
func (m *Machine) StrPush(i int) error {
	if i < 2 {
		return &TypeMismatchError{Op: "StrPush", Index: i,
			Expected: []value.Kind{value.KindEmpty, value.KindChar, value.KindIString},
			Found:    []value.Kind{}}
	}
	gap, ch, s := m.Cells[i-2], m.Cells[i-1], m.Cells[i]
	if gap.Kind != value.KindEmpty || ch.Kind != value.KindChar || (s.Kind != value.KindIString && s.Kind != value.KindFString) {
		return &TypeMismatchError{Op: "StrPush", Index: i - 2,
			Expected: []value.Kind{value.KindEmpty, value.KindChar, value.KindIString},
			Found:    []value.Kind{gap.Kind, ch.Kind, s.Kind}}
	}

	m.logOp("StrPush", i)
	m.MoveTo(i - 1)
	m.emitRaw("[->+<]>[>>]>+>")

	next := s
	next.Str = append(append([]byte{}, s.Str...), ch.Char)
	m.Cells = append(append([]value.Value{}, m.Cells[:i-2]...), append([]value.Value{next}, m.Cells[i+1:]...)...)
	m.Cursor = i - 1
	return nil
}

// ArrayPush requires [Array, U32, Empty]. Appends the value to the back of
// the array (`array_push` in the original assembly); the operand cell is
// stored with the array's +1 bias.
func (m *Machine) ArrayPush(i int) error {
	m.ensureLen(i + 3)
	a, v, gap := m.Cells[i], m.Cells[i+1], m.Cells[i+2]
	if a.Kind != value.KindArray || v.Kind != value.KindU32 || gap.Kind != value.KindEmpty {
		return &TypeMismatchError{Op: "ArrayPush", Index: i,
			Expected: []value.Kind{value.KindArray, value.KindU32, value.KindEmpty},
			Found:    []value.Kind{a.Kind, v.Kind, gap.Kind}}
	}

	m.logOp("ArrayPush", i)
	m.MoveTo(i + 1)
	m.emitRaw("+[-<<+>>]<[->>+<<]>>+>")

	next := a
	next.Arr = append(append([]uint32{}, a.Arr...), v.U32)
	m.Cells = append(append([]value.Value{}, m.Cells[:i]...), append([]value.Value{next}, m.Cells[i+3:]...)...)
	m.Cursor = i + 1
	return nil
}

// ArrayPushF requires [Empty, U32, Array]. Prepends the value to the front
// of the array (`array_push_front`); the result slot ends up at i-2.
func (m *Machine) ArrayPushF(i int) error {
	if i < 2 {
		return &TypeMismatchError{Op: "ArrayPushF", Index: i,
			Expected: []value.Kind{value.KindEmpty, value.KindU32, value.KindArray},
			Found:    []value.Kind{}}
	}
	gap, v, a := m.Cells[i-2], m.Cells[i-1], m.Cells[i]
	if gap.Kind != value.KindEmpty || v.Kind != value.KindU32 || a.Kind != value.KindArray {
		return &TypeMismatchError{Op: "ArrayPushF", Index: i - 2,
			Expected: []value.Kind{value.KindEmpty, value.KindU32, value.KindArray},
			Found:    []value.Kind{gap.Kind, v.Kind, a.Kind}}
	}

	m.logOp("ArrayPushF", i)
	m.MoveTo(i - 1)
	m.emitRaw("+[->+<]>[>>]>+>")

	next := a
	next.Arr = append([]uint32{v.U32}, a.Arr...)
	m.Cells = append(append([]value.Value{}, m.Cells[:i-2]...), append([]value.Value{next}, m.Cells[i+1:]...)...)
	m.Cursor = i - 1
	return nil
}

// ArrayIndex requires [Array, U32 k, Empty]. Replaces k with the value
// array[len-1-k] (back-indexed, `array_index_back` in the original). The
// array is read-only; only the U32 cell's payload changes.
func (m *Machine) ArrayIndex(i int) error {
	m.ensureLen(i + 3)
	a, k, gap := m.Cells[i], m.Cells[i+1], m.Cells[i+2]
	if a.Kind != value.KindArray || k.Kind != value.KindU32 || gap.Kind != value.KindEmpty {
		return &TypeMismatchError{Op: "ArrayIndex", Index: i,
			Expected: []value.Kind{value.KindArray, value.KindU32, value.KindEmpty},
			Found:    []value.Kind{a.Kind, k.Kind, gap.Kind}}
	}
	if int(k.U32) >= len(a.Arr) {
		return &ArrayIndexOutOfRangeError{Index: i, K: k.U32, Len: len(a.Arr)}
	}

	m.logOp("ArrayIndex", i)
	m.MoveTo(i + 1)
	m.emitRaw("[-<<<[<]+[>]>>]")
	m.emitRaw("<<<[<]<[->>[>]>>+>+<<<<[<]<]>>[>]>>>")
	m.emitRaw("[-<<<<[<]<+>>[>]>>>]<<<<[<]>[>->]>>-")
	m.Cursor = i + 1

	m.Cells[i+1] = value.U32Val(a.Arr[len(a.Arr)-int(k.U32)-1])
	return nil
}

// ArrayIndexF requires [Empty, U32 k, Array]. Replaces k with array[k]
// (front-indexed, `array_index` in the original).
func (m *Machine) ArrayIndexF(i int) error {
	m.ensureLen(i + 3)
	gap, k, a := m.Cells[i], m.Cells[i+1], m.Cells[i+2]
	if gap.Kind != value.KindEmpty || k.Kind != value.KindU32 || a.Kind != value.KindArray {
		return &TypeMismatchError{Op: "ArrayIndexF", Index: i,
			Expected: []value.Kind{value.KindEmpty, value.KindU32, value.KindArray},
			Found:    []value.Kind{gap.Kind, k.Kind, a.Kind}}
	}
	if int(k.U32) >= len(a.Arr) {
		return &ArrayIndexOutOfRangeError{Index: i, K: k.U32, Len: len(a.Arr)}
	}

	m.logOp("ArrayIndexF", i)
	m.MoveTo(i + 1)
	m.emitRaw("[->>[>]+[<]<]")
	m.emitRaw(">>[>]>[-<<[<]<+<+>>>[>]>]<<[<]<<")
	m.emitRaw("[->>>[>]>+<<[<]<<]>>>[->>]<[<<]<-")
	m.Cursor = i + 1

	m.Cells[i+1] = value.U32Val(a.Arr[k.U32])
	return nil
}

// ArraySet requires [Array, U32 k, U32 v]. Replaces a[len-1-k] with v
// (back-indexed, `array_set_back`); i+1 and i+2 become Empty.
func (m *Machine) ArraySet(i int) error {
	m.ensureLen(i + 3)
	a, k, v := m.Cells[i], m.Cells[i+1], m.Cells[i+2]
	if a.Kind != value.KindArray || k.Kind != value.KindU32 || v.Kind != value.KindU32 {
		return &TypeMismatchError{Op: "ArraySet", Index: i,
			Expected: []value.Kind{value.KindArray, value.KindU32, value.KindU32},
			Found:    []value.Kind{a.Kind, k.Kind, v.Kind}}
	}
	if int(k.U32) >= len(a.Arr) {
		return &ArrayIndexOutOfRangeError{Index: i, K: k.U32, Len: len(a.Arr)}
	}

	m.logOp("ArraySet", i)
	m.MoveTo(i + 1)
	m.emitRaw("[-<<<[<]+[>]>>]<<<[<]<[-]+>>[>]>>>")
	m.emitRaw("[-<<<<[<]<+>>[>]>>>]")
	m.emitRaw("<<<<[<]>[>->]>>")
	m.Cursor = i + 1

	next := a
	next.Arr = append([]uint32{}, a.Arr...)
	next.Arr[len(a.Arr)-int(k.U32)-1] = v.U32
	m.Cells[i] = next
	m.Cells[i+1] = value.Empty
	m.Cells[i+2] = value.Empty
	return nil
}

// Len requires [IString|FString|Array, Empty, Empty]. Writes U32(len) at
// i+1 and leaves the cursor at i+2.
func (m *Machine) Len(i int) error {
	m.ensureLen(i + 3)
	s, target, gap := m.Cells[i], m.Cells[i+1], m.Cells[i+2]
	var n int
	switch s.Kind {
	case value.KindIString, value.KindFString:
		n = len(s.Str)
	case value.KindArray:
		n = len(s.Arr)
	default:
		return &TypeMismatchError{Op: "Len", Index: i,
			Expected: []value.Kind{value.KindIString, value.KindEmpty, value.KindEmpty},
			Found:    []value.Kind{s.Kind, target.Kind, gap.Kind}}
	}
	if target.Kind != value.KindEmpty || gap.Kind != value.KindEmpty {
		return &TypeMismatchError{Op: "Len", Index: i,
			Expected: []value.Kind{s.Kind, value.KindEmpty, value.KindEmpty},
			Found:    []value.Kind{s.Kind, target.Kind, gap.Kind}}
	}

	m.logOp("Len", i)
	m.MoveTo(i + 1)
	m.emitRaw("<[->+>+<<]>>[-<<+>>]")
	m.Cursor = i + 2

	m.Cells[i+1] = value.U32Val(uint32(n))
	return nil
}

// Input requires Empty at i (Char shape) or an all-Empty tail from i
// (IString shape). v supplies the concrete value the shadow records as
// having been read; the emitted code is the ordinary READ primitive (or
// the ReadStringUntilNul idiom), independent of v — v only determines what
// ExpectedIn is extended with and what the shadow stores at i.
func (m *Machine) Input(i int, v value.Value) error {
	switch v.Kind {
	case value.KindChar:
		m.ensureLen(i + 1)
		if m.Cells[i].Kind != value.KindEmpty {
			return &TypeMismatchError{Op: "Input", Index: i,
				Expected: []value.Kind{value.KindEmpty}, Found: []value.Kind{m.Cells[i].Kind}}
		}
		m.logOp("Input", i)
		m.MoveTo(i)
		m.emit(tape.OpRead)
		m.ExpectedIn = append(m.ExpectedIn, v.Char)
		m.Cells[i] = v
		return nil

	case value.KindIString:
		m.ensureLen(i)
		if !allEmpty(m.Cells[i:]) {
			return &TypeMismatchError{Op: "Input", Index: i,
				Expected: []value.Kind{value.KindEmpty}, Found: kindsOf(m.Cells[i:])}
		}
		m.logOp("Input", i)
		m.MoveTo(i)
		m.emitRaw(">>,[[>>]>[->>+<<]>>+<<<<<[[->>+<<]<<]>>,]")
		m.emitRaw(">>[[-<<+>>]>>]>[-<<+>>]<")

		m.ExpectedIn = append(m.ExpectedIn, v.Str...)
		m.ExpectedIn = append(m.ExpectedIn, 0)
		m.Cells = append(append([]value.Value{}, m.Cells[:i]...), v)
		m.Cursor = i + 1
		return nil

	default:
		return &TypeMismatchError{Op: "Input", Index: i,
			Expected: []value.Kind{value.KindChar, value.KindIString}, Found: []value.Kind{v.Kind}}
	}
}

// Print requires U32 or Char at i; the value is unchanged. Appends WRITE
// and extends ExpectedOut with the byte that would be written.
func (m *Machine) Print(i int) error {
	m.ensureLen(i + 1)
	v := m.Cells[i]
	var b byte
	switch v.Kind {
	case value.KindU32:
		b = byte(v.U32)
	case value.KindChar:
		b = v.Char
	default:
		return &TypeMismatchError{Op: "Print", Index: i,
			Expected: []value.Kind{value.KindU32, value.KindChar}, Found: []value.Kind{v.Kind}}
	}

	m.logOp("Print", i)
	m.MoveTo(i)
	m.emit(tape.OpWrite)
	m.ExpectedOut = append(m.ExpectedOut, b)
	return nil
}
