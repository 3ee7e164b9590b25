package bfasm

import (
	"github.com/KittydaCat/BunF/tape"
	"github.com/KittydaCat/BunF/value"
)

// shapesMatch compares two cell sequences variant-wise (Kind only, not
// payload), treating any index past the end of the shorter one as Empty.
// This is the shape-preservation check every control structure's body must
// pass: the body may change values but never the logical layout.
func shapesMatch(a, b []value.Value) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ka, kb := value.KindEmpty, value.KindEmpty
		if i < len(a) {
			ka = a[i].Kind
		}
		if i < len(b) {
			kb = b[i].Kind
		}
		if ka != kb {
			return false
		}
	}
	return true
}

// appendRaw appends a tape.Program fragment (as already-emitted bytes) to
// m's code buffer, honoring the emission gate the same way m.emit does.
func (m *Machine) appendRaw(frag tape.Program) {
	instrs := make([]tape.Instr, len(frag))
	for i, b := range frag {
		instrs[i] = tape.Instr(b)
	}
	m.emit(instrs...)
}

// testArm dry-runs body against a snapshot of m, then checks that the
// snapshot's final cells have the same shape (Kind-wise) as m's current
// cells. It returns the fragment the dry run emitted and any op-errors the
// body raised, or an InvalidMatchArmError if the body raised a shape error
// or failed the shape-preservation check.
func (m *Machine) testArm(body []Op, retIndex int) (tape.Program, *ErrorsInBlock, error) {
	snap := m.snapshot()

	errs, err := Exec(body, snap)
	if err != nil {
		return nil, nil, &InvalidMatchArmError{Reason: "shape error during dry-run", Cause: err}
	}

	snap.MoveTo(retIndex)

	if !shapesMatch(m.Cells, snap.Cells) {
		return nil, nil, &InvalidMatchArmError{Reason: "body does not preserve the outer tape shape"}
	}

	return snap.Code(), errs, nil
}

// BoolIf requires cells[i] = Bool(b). Dry-runs body for shape-preservation,
// emits `LOOP_BEGIN [-] <body-code> LOOP_END` (the leading [-] consumes
// the boolean so the loop body runs at most once), and — if b was known
// true at compile time — runs body for real against the outer shadow with
// emission suppressed, so later operations see the post-body state.
func (m *Machine) BoolIf(i int, body []Op) (*ErrorsInBlock, error) {
	m.ensureLen(i + 1)
	bv := m.Cells[i]
	if bv.Kind != value.KindBool {
		return nil, &TypeMismatchError{Op: "BoolIf", Index: i,
			Expected: []value.Kind{value.KindBool}, Found: []value.Kind{bv.Kind}}
	}

	m.logOp("BoolIf", i)
	m.Cells[i] = value.Empty

	frag, errs, err := m.testArm(body, i)
	if err != nil {
		return nil, err
	}

	m.MoveTo(i)
	m.emit(tape.OpLoopBegin)
	m.emit(tape.OpLoopBegin, tape.OpDec, tape.OpLoopEnd)
	m.appendRaw(frag)
	m.emit(tape.OpLoopEnd)

	if bv.Bool {
		m.runSuppressed(func() { errs, err = Exec(body, m) })
		if err != nil {
			return errs, err
		}
		m.MoveTo(i)
	}

	return errs, nil
}

// BoolWhile requires cells[i] = Bool(b). Dry-runs body once for
// shape-preservation, emits `LOOP_BEGIN <body-code> LOOP_END` (no leading
// clear: the body must update cells[i] itself each iteration), and — while
// cells[i] remains Bool(true) at compile time — runs body for real against
// the outer shadow with emission suppressed, so the shadow's type-state
// tracks what the generated loop will do at run time. The emitted code is
// the generic loop regardless of how many times the shadow iterates.
func (m *Machine) BoolWhile(i int, body []Op) (*ErrorsInBlock, error) {
	m.ensureLen(i + 1)
	bv := m.Cells[i]
	if bv.Kind != value.KindBool {
		return nil, &TypeMismatchError{Op: "BoolWhile", Index: i,
			Expected: []value.Kind{value.KindBool}, Found: []value.Kind{bv.Kind}}
	}

	m.logOp("BoolWhile", i)

	frag, errs, err := m.testArm(body, i)
	if err != nil {
		return nil, err
	}

	cond := bv.Bool
	m.runSuppressed(func() {
		for cond {
			var iterErrs *ErrorsInBlock
			iterErrs, err = Exec(body, m)
			errs = mergeErrorsInBlock(errs, iterErrs)
			m.MoveTo(i)
			if err != nil || iterErrs != nil {
				return
			}
			next := m.Cells[i]
			if next.Kind != value.KindBool {
				err = &InvalidMatchArmError{Reason: "BoolWhile body left a non-Bool at the condition index"}
				return
			}
			cond = next.Bool
		}
	})
	if err != nil {
		return errs, err
	}

	m.MoveTo(i)
	m.emit(tape.OpLoopBegin)
	m.appendRaw(frag)
	m.emit(tape.OpLoopEnd)

	m.Cells[i] = value.Empty
	return errs, nil
}

// CharMatch requires cells[i..i+6] = [Char, Empty×5] (five scratch cells)
// and arms strictly ascending by byte. It emits a scratch initialiser, then
// one hand-crafted dispatch idiom per arm that falls into the arm body when
// the char equals that arm's byte and otherwise advances to the next arm,
// then a trailer that collapses the scratch cells back to Empty.
// Post-condition: cells[i] = Empty.
func (m *Machine) CharMatch(i int, arms []MatchArm) (*ErrorsInBlock, error) {
	m.ensureLen(i + 6)
	ch := m.Cells[i]
	scratch := m.Cells[i+1 : i+6]
	if ch.Kind != value.KindChar || !allEmpty(scratch) {
		return nil, &TypeMismatchError{Op: "CharMatch", Index: i,
			Expected: append([]value.Kind{value.KindChar}, repeatKind(value.KindEmpty, 5)...),
			Found:    append([]value.Kind{ch.Kind}, kindsOf(scratch)...)}
	}
	prev := byte(0)
	for idx, arm := range arms {
		if idx > 0 && arm.Byte <= prev {
			return nil, &InvalidMatchArmError{ArmIndex: idx, Reason: "arms must be strictly ascending by byte"}
		}
		prev = arm.Byte
	}

	m.logOp("CharMatch", i)
	m.MoveTo(i)
	m.emitRaw(">>>>+<<")
	m.Cursor = i + 4
	m.Cells[i] = value.Empty

	var allErrs *ErrorsInBlock
	var matchedErrs *ErrorsInBlock
	matched := false
	previous := byte(0)

	// Every arm's dispatch idiom has the same fixed structural depth (the
	// scratch region is always 4 cells deep), so the logical index the arm
	// body runs at is always i+5 — computed fresh each iteration rather
	// than carried forward from the previous arm's cursor, unlike the
	// original assembly, which derives it from self.index and so drifts
	// one cell further per matched arm.
	bodyRetIndex := i + 5

	for idx, arm := range arms {
		m.emit(repeatInstr(tape.OpInc, int(arm.Byte-previous))...)
		m.emitRaw("[-<<[->]>]>>[<<<<[>]>>>>[")

		frag, errs, err := m.testArm(arm.Body, bodyRetIndex)
		if err != nil {
			return nil, &InvalidMatchArmError{ArmIndex: idx, Reason: "arm body error", Cause: err}
		}
		if errs != nil {
			allErrs = mergeErrorsInBlock(allErrs, errs)
		}

		if arm.Byte == ch.Char {
			matched = true
			m.runSuppressed(func() {
				matchedErrs, err = Exec(arm.Body, m)
				m.Cursor = bodyRetIndex
			})
			if err != nil {
				return allErrs, err
			}
		}

		m.appendRaw(frag)
		m.emitRaw("\n]<<<")
		previous = arm.Byte
	}

	m.emit(repeatInstr(tape.OpLoopEnd, len(arms))...)
	m.emitRaw(">[<]>[-]<<[-]<<[-]")
	m.Cursor = i

	m.Cells[i] = value.Empty
	if matched && matchedErrs != nil {
		allErrs = mergeErrorsInBlock(allErrs, matchedErrs)
	}
	return allErrs, nil
}

func mergeErrorsInBlock(a, b *ErrorsInBlock) *ErrorsInBlock {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &ErrorsInBlock{Errors: append(append([]OpError{}, a.Errors...), b.Errors...)}
}
