package bfasm

import "github.com/KittydaCat/BunF/value"

// Op is one typed operation from the assembler's closed instruction set.
// Apply mutates m (shadow cells, cursor, emitted code) exactly as the
// corresponding Machine method does; it exists so operation sequences
// (control-structure bodies, match arms) can be built as plain data and
// replayed against a snapshot during a dry run.
//
// Apply returns an OpError (UnderflowError, InvalidStringIndexError,
// ErrorsInBlock) for a non-fatal, value-level failure — the emitted code
// is still correct for its type-state — or any other error for a fatal
// shape error that aborts the operation. Callers that need to tell the two
// apart use a type assertion against OpError, exactly as Exec does.
type Op interface {
	Apply(m *Machine) error
}

// Exec runs ops against m in order, collecting every op-error it sees and
// stopping at the first shape error. The ErrorsInBlock return value is nil
// if no op-error was raised.
func Exec(ops []Op, m *Machine) (*ErrorsInBlock, error) {
	var collected []OpError
	for _, op := range ops {
		if err := op.Apply(m); err != nil {
			if opErr, ok := err.(OpError); ok {
				collected = append(collected, opErr)
				continue
			}
			return asErrorsInBlock(collected), err
		}
	}
	return asErrorsInBlock(collected), nil
}

type SetOp struct {
	Index int
	Value value.Value
}

func (op SetOp) Apply(m *Machine) error { return m.Set(op.Index, op.Value) }

type MoveToOp struct{ Index int }

func (op MoveToOp) Apply(m *Machine) error { m.MoveTo(op.Index); return nil }

type ClearOp struct{ Index int }

func (op ClearOp) Apply(m *Machine) error { m.Clear(op.Index); return nil }

type CopyValOp struct{ Index int }

func (op CopyValOp) Apply(m *Machine) error { return m.CopyVal(op.Index) }

type MoveTypeOp struct{ Src, Dst int }

func (op MoveTypeOp) Apply(m *Machine) error { return m.MoveType(op.Src, op.Dst) }

type InsertECOp struct{ Index, N int }

func (op InsertECOp) Apply(m *Machine) error { m.InsertEC(op.Index, op.N); return nil }

type U32AddOp struct{ Index int }

func (op U32AddOp) Apply(m *Machine) error { return m.U32Add(op.Index) }

type U32SubUncheckedOp struct{ Index int }

func (op U32SubUncheckedOp) Apply(m *Machine) error { return m.U32SubUnchecked(op.Index) }

type I32AddOp struct{ Index int }

func (op I32AddOp) Apply(m *Machine) error { return m.I32Add(op.Index) }

type GreaterThanOp struct{ Index int }

func (op GreaterThanOp) Apply(m *Machine) error { return m.GreaterThan(op.Index) }

type LessThanOp struct{ Index int }

func (op LessThanOp) Apply(m *Machine) error { return m.LessThan(op.Index) }

type EqualsOp struct{ Index int }

func (op EqualsOp) Apply(m *Machine) error { return m.Equals(op.Index) }

type StrIndexOp struct{ Index int }

func (op StrIndexOp) Apply(m *Machine) error { return m.StrIndex(op.Index) }

type StrPushFOp struct{ Index int }

func (op StrPushFOp) Apply(m *Machine) error { return m.StrPushF(op.Index) }

type StrPushOp struct{ Index int }

func (op StrPushOp) Apply(m *Machine) error { return m.StrPush(op.Index) }

type ArrayPushOp struct{ Index int }

func (op ArrayPushOp) Apply(m *Machine) error { return m.ArrayPush(op.Index) }

type ArrayPushFOp struct{ Index int }

func (op ArrayPushFOp) Apply(m *Machine) error { return m.ArrayPushF(op.Index) }

type ArrayIndexOp struct{ Index int }

func (op ArrayIndexOp) Apply(m *Machine) error { return m.ArrayIndex(op.Index) }

type ArrayIndexFOp struct{ Index int }

func (op ArrayIndexFOp) Apply(m *Machine) error { return m.ArrayIndexF(op.Index) }

type ArraySetOp struct{ Index int }

func (op ArraySetOp) Apply(m *Machine) error { return m.ArraySet(op.Index) }

type LenOp struct{ Index int }

func (op LenOp) Apply(m *Machine) error { return m.Len(op.Index) }

type InputOp struct {
	Index int
	Value value.Value
}

func (op InputOp) Apply(m *Machine) error { return m.Input(op.Index, op.Value) }

type PrintOp struct{ Index int }

func (op PrintOp) Apply(m *Machine) error { return m.Print(op.Index) }

type CharToU32Op struct{ Index int }

func (op CharToU32Op) Apply(m *Machine) error { return m.CharToU32(op.Index) }

// MatchArm is one (byte, body) pair of a CharMatchOp. Arms must be
// strictly ascending by Byte.
type MatchArm struct {
	Byte byte
	Body []Op
}

type CharMatchOp struct {
	Index int
	Arms  []MatchArm
}

func (op CharMatchOp) Apply(m *Machine) error {
	errs, err := m.CharMatch(op.Index, op.Arms)
	if err != nil {
		return err
	}
	if errs != nil {
		return errs
	}
	return nil
}

type BoolIfOp struct {
	Index int
	Body  []Op
}

func (op BoolIfOp) Apply(m *Machine) error {
	errs, err := m.BoolIf(op.Index, op.Body)
	if err != nil {
		return err
	}
	if errs != nil {
		return errs
	}
	return nil
}

type BoolWhileOp struct {
	Index int
	Body  []Op
}

func (op BoolWhileOp) Apply(m *Machine) error {
	errs, err := m.BoolWhile(op.Index, op.Body)
	if err != nil {
		return err
	}
	if errs != nil {
		return errs
	}
	return nil
}
