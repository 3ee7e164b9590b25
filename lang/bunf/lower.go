package bunf

import (
	"github.com/pkg/errors"

	"github.com/KittydaCat/BunF/bfasm"
	"github.com/KittydaCat/BunF/value"
)

// Lower walks prog and returns the []bfasm.Op sequence it compiles to,
// along with the Scope recording where every declared variable ended up.
// It is a thin collaborator in the sense spec.md §6.3 describes: it
// covers the statement and expression forms and built-ins named there,
// and leans on bfasm.Exec (run by the caller, typically cmd/bunf) to
// actually validate every op's shape precondition — Lower itself only
// has to emit a plausible sequence, not prove one.
func Lower(prog []Stmt) ([]bfasm.Op, *Scope, error) {
	l := &lowerer{scope: NewScope()}
	for _, st := range prog {
		if err := l.stmt(st); err != nil {
			return nil, nil, err
		}
	}
	return l.ops, l.scope, nil
}

type lowerer struct {
	scope *Scope
	ops   []bfasm.Op
}

func (l *lowerer) emit(ops ...bfasm.Op) { l.ops = append(l.ops, ops...) }

func (l *lowerer) stmt(st Stmt) error {
	switch s := st.(type) {
	case *LetStmt:
		return l.letStmt(s)
	case *AssignStmt:
		return l.assignStmt(s)
	case *CompoundAssignStmt:
		return l.compoundAssignStmt(s)
	case *IndexAssignStmt:
		return l.indexAssignStmt(s)
	case *IfStmt:
		return l.ifStmt(s)
	case *WhileStmt:
		return l.whileStmt(s)
	case *MatchStmt:
		return l.matchStmt(s)
	case *ExprStmt:
		_, err := l.eval(s.Value)
		return err
	default:
		return errors.Errorf("bunf: unhandled statement %T", st)
	}
}

func (l *lowerer) letStmt(s *LetStmt) error {
	slot, err := l.eval(s.Value)
	if err != nil {
		return err
	}
	if err := l.scope.declareAt(s.Name, slot.Index, slot.Kind); err != nil {
		return err
	}
	l.scope.advance(slot.Index + scratchWidth(slot.Kind))
	return nil
}

func (l *lowerer) assignStmt(s *AssignStmt) error {
	dst, ok := l.scope.lookup(s.Name)
	if !ok {
		return errors.Errorf("bunf: assignment to undeclared variable %q", s.Name)
	}

	// Literal RHS is handled without materialising a temporary: clear and
	// re-set the variable's own slot directly. This is the only supported
	// form of I32 reassignment, since I32 values can't be relocated.
	if lit, ok := literalValue(s.Value); ok {
		if lit.Kind != dst.Kind {
			return errors.Errorf("bunf: %q is %s, cannot assign a %s literal", s.Name, dst.Kind, lit.Kind)
		}
		l.emit(bfasm.ClearOp{Index: dst.Index})
		l.emit(bfasm.SetOp{Index: dst.Index, Value: lit})
		return nil
	}

	if dst.Kind == value.KindI32 {
		return errors.Errorf("bunf: %q is I32; only literal reassignment is supported", s.Name)
	}

	src, err := l.eval(s.Value)
	if err != nil {
		return err
	}
	if src.Kind != dst.Kind {
		return errors.Errorf("bunf: %q is %s, cannot assign a %s value", s.Name, dst.Kind, src.Kind)
	}
	switch dst.Kind {
	case value.KindU32, value.KindBool, value.KindChar:
		l.emit(bfasm.ClearOp{Index: dst.Index})
		l.emit(bfasm.MoveTypeOp{Src: src.Index, Dst: dst.Index})
		return nil
	default:
		return errors.Errorf("bunf: reassigning a %s variable from a computed value is not supported", dst.Kind)
	}
}

func (l *lowerer) compoundAssignStmt(s *CompoundAssignStmt) error {
	op := "+"
	if s.Op == "-=" {
		op = "-"
	}
	return l.assignStmt(&AssignStmt{Name: s.Name, Value: &BinaryExpr{Op: op, X: &VarExpr{Name: s.Name}, Y: s.Value}})
}

func (l *lowerer) indexAssignStmt(s *IndexAssignStmt) error {
	v, ok := l.scope.lookup(s.Name)
	if !ok {
		return errors.Errorf("bunf: undeclared variable %q", s.Name)
	}
	if v.Kind != value.KindArray {
		return errors.Errorf("bunf: %q is not an array; indexed assignment needs ArraySet's [Array, U32, U32] shape", s.Name)
	}
	if err := l.materializeAt(s.Index, v.Index+1, value.KindU32); err != nil {
		return err
	}
	if err := l.materializeAt(s.Value, v.Index+2, value.KindU32); err != nil {
		return err
	}
	l.emit(bfasm.ArraySetOp{Index: v.Index})
	return nil
}

func (l *lowerer) ifStmt(s *IfStmt) error {
	cond, err := l.boolSlot(s.Cond)
	if err != nil {
		return err
	}
	body, err := l.subLowerer().lowerBody(s.Body)
	if err != nil {
		return err
	}
	l.emit(bfasm.BoolIfOp{Index: cond.Index, Body: body})
	return nil
}

func (l *lowerer) whileStmt(s *WhileStmt) error {
	cond, err := l.boolSlot(s.Cond)
	if err != nil {
		return err
	}
	// The condition is re-evaluated at the end of every pass and moved into
	// the loop cell, so assignments in the body can end the loop.
	sub := l.subLowerer()
	if _, err := sub.lowerBody(s.Body); err != nil {
		return err
	}
	next, err := sub.boolSlot(s.Cond)
	if err != nil {
		return err
	}
	sub.emit(bfasm.ClearOp{Index: cond.Index}, bfasm.MoveTypeOp{Src: next.Index, Dst: cond.Index})
	l.emit(bfasm.BoolWhileOp{Index: cond.Index, Body: sub.ops})
	return nil
}

func (l *lowerer) matchStmt(s *MatchStmt) error {
	subj, ok := s.Subject.(*VarExpr)
	if !ok {
		return errors.Errorf("bunf: match subject must be a bare variable")
	}
	v, ok := l.scope.lookup(subj.Name)
	if !ok {
		return errors.Errorf("bunf: undeclared variable %q", subj.Name)
	}
	if v.Kind != value.KindChar {
		return errors.Errorf("bunf: match subject %q must be a Char", subj.Name)
	}
	arms := make([]bfasm.MatchArm, 0, len(s.Arms))
	for _, a := range s.Arms {
		if a.Wildcard {
			continue // CharMatch's arms are the named bytes only; an
			// unmatched byte simply falls through with the subject
			// variable left in place (CharMatch consumes only the copy
			// made below), which is what the wildcard arm with an empty
			// body already does.
		}
		body, err := l.subLowerer().lowerBody(a.Body)
		if err != nil {
			return err
		}
		arms = append(arms, bfasm.MatchArm{Byte: a.Lit, Body: body})
	}
	// CharMatch needs [Char, Empty×5] and empties its subject, so it runs
	// on a copy placed in a fresh six-slot region.
	idx := l.scope.bump(6)
	l.emit(bfasm.CopyValOp{Index: v.Index}, bfasm.MoveTypeOp{Src: v.Index + 1, Dst: idx})
	l.emit(bfasm.CharMatchOp{Index: idx, Arms: arms})
	return nil
}

// subLowerer returns a lowerer sharing this one's scope (so nested bodies
// see already-declared variables and claim fresh bump slots past them) but
// with its own ops accumulator, for building a Body slice.
func (l *lowerer) subLowerer() *lowerer { return &lowerer{scope: l.scope} }

func (l *lowerer) lowerBody(stmts []Stmt) ([]bfasm.Op, error) {
	for _, st := range stmts {
		if err := l.stmt(st); err != nil {
			return nil, err
		}
	}
	return l.ops, nil
}

// boolSlot evaluates cond and requires the result to be a Bool.
func (l *lowerer) boolSlot(cond Expr) (varSlot, error) {
	slot, err := l.eval(cond)
	if err != nil {
		return varSlot{}, err
	}
	if slot.Kind != value.KindBool {
		return varSlot{}, errors.Errorf("bunf: condition has kind %s, want Bool", slot.Kind)
	}
	return slot, nil
}

// literalValue reports the value.Value an expression denotes if it is a
// bare literal, without emitting anything.
func literalValue(e Expr) (value.Value, bool) {
	switch n := e.(type) {
	case *IntLit:
		return value.U32Val(n.Value), true
	case *NegIntLit:
		return value.I32Val(n.Value), true
	case *CharLit:
		return value.CharVal(n.Value), true
	case *BoolLit:
		return value.BoolVal(n.Value), true
	default:
		return value.Value{}, false
	}
}

// eval lowers e and returns a freshly-owned slot holding its value: either
// a bump-allocated temporary (literals, computed expressions) or, for a
// bare reference to a string/array variable, the variable's own slot
// (those are read in place rather than copied — see readVar).
func (l *lowerer) eval(e Expr) (varSlot, error) {
	if lit, ok := literalValue(e); ok {
		idx := l.scope.bump(scratchWidth(lit.Kind))
		l.emit(bfasm.SetOp{Index: idx, Value: lit})
		return varSlot{idx, lit.Kind}, nil
	}
	switch n := e.(type) {
	case *VarExpr:
		return l.readVar(n.Name)
	case *UnaryExpr:
		return l.unary(n)
	case *BinaryExpr:
		return l.binaryExpr(n)
	case *IndexExpr:
		return l.indexExpr(n)
	case *CallExpr:
		return l.callExpr(n)
	case *MethodCallExpr:
		return l.methodCallExpr(n)
	default:
		return varSlot{}, errors.Errorf("bunf: unhandled expression %T", e)
	}
}

func (l *lowerer) readVar(name string) (varSlot, error) {
	v, ok := l.scope.lookup(name)
	if !ok {
		return varSlot{}, errors.Errorf("bunf: undeclared variable %q", name)
	}
	switch v.Kind {
	case value.KindU32, value.KindBool, value.KindChar:
		idx := l.scope.bump(scratchWidth(v.Kind))
		l.emit(bfasm.CopyValOp{Index: v.Index})
		l.emit(bfasm.MoveTypeOp{Src: v.Index + 1, Dst: idx})
		return varSlot{idx, v.Kind}, nil
	case value.KindI32:
		if v.Index+1 != l.scope.next {
			return varSlot{}, errors.Errorf(
				"bunf: I32 variable %q cannot be read here; it can only be copied immediately after its own declaration", name)
		}
		l.emit(bfasm.CopyValOp{Index: v.Index})
		l.scope.advance(v.Index + 2)
		return varSlot{v.Index + 1, value.KindI32}, nil
	default: // FString, IString, Array: reference-like, read in place.
		return varSlot{v.Index, v.Kind}, nil
	}
}

func (l *lowerer) unary(n *UnaryExpr) (varSlot, error) {
	if n.Op != "-" {
		return varSlot{}, errors.Errorf("bunf: unsupported unary operator %q", n.Op)
	}
	lit, ok := n.X.(*IntLit)
	if !ok {
		return varSlot{}, errors.Errorf("bunf: unary - is only supported directly in front of an integer literal")
	}
	idx := l.scope.bump(scratchWidth(value.KindI32))
	l.emit(bfasm.SetOp{Index: idx, Value: value.I32Val(-int32(lit.Value))})
	return varSlot{idx, value.KindI32}, nil
}

// staticKind infers an expression's result kind without emitting any ops,
// so binaryExpr can pick its I32-vs-U32 strategy before committing to one.
func (l *lowerer) staticKind(e Expr) (value.Kind, error) {
	switch n := e.(type) {
	case *IntLit:
		return value.KindU32, nil
	case *NegIntLit:
		return value.KindI32, nil
	case *CharLit:
		return value.KindChar, nil
	case *BoolLit:
		return value.KindBool, nil
	case *UnaryExpr:
		return value.KindI32, nil
	case *VarExpr:
		v, ok := l.scope.lookup(n.Name)
		if !ok {
			return 0, errors.Errorf("bunf: undeclared variable %q", n.Name)
		}
		return v.Kind, nil
	case *BinaryExpr:
		switch n.Op {
		case "+", "-":
			xk, err := l.staticKind(n.X)
			if err != nil {
				return 0, err
			}
			return xk, nil
		case ">", "<", "==":
			return value.KindBool, nil
		default:
			return 0, errors.Errorf("bunf: unsupported operator %q", n.Op)
		}
	default:
		return 0, errors.Errorf("bunf: cannot infer a static kind for %T", e)
	}
}

func (l *lowerer) binaryExpr(n *BinaryExpr) (varSlot, error) {
	xk, err := l.staticKind(n.X)
	if err != nil {
		return varSlot{}, err
	}
	yk, err := l.staticKind(n.Y)
	if err != nil {
		return varSlot{}, err
	}
	if xk == value.KindI32 || yk == value.KindI32 {
		if xk != value.KindI32 || yk != value.KindI32 {
			return varSlot{}, errors.Errorf("bunf: cannot mix I32 with %s in a binary expression", xk)
		}
		if n.Op != "+" {
			return varSlot{}, errors.Errorf("bunf: I32 only supports +")
		}
		return l.i32Add(n.X, n.Y)
	}
	if xk != yk {
		return varSlot{}, errors.Errorf("bunf: mismatched operand kinds %s and %s", xk, yk)
	}
	return l.binaryU32Like(n.Op, n.X, n.Y, xk)
}

// i32Add requires both operands to already sit adjacent in the layout
// (the common case: two I32 variables declared back to back for exactly
// this purpose) or to be literals, which it stages into a fresh adjacent
// pair. Mixed variable/literal operands aren't supported, matching the
// no-relocation limitation documented on Scope.scratchWidth.
func (l *lowerer) i32Add(x, y Expr) (varSlot, error) {
	xv, xIsVar := x.(*VarExpr)
	yv, yIsVar := y.(*VarExpr)
	if xIsVar && yIsVar {
		xs, ok := l.scope.lookup(xv.Name)
		if !ok {
			return varSlot{}, errors.Errorf("bunf: undeclared variable %q", xv.Name)
		}
		ys, ok := l.scope.lookup(yv.Name)
		if !ok {
			return varSlot{}, errors.Errorf("bunf: undeclared variable %q", yv.Name)
		}
		if ys.Index != xs.Index+1 {
			return varSlot{}, errors.Errorf(
				"bunf: I32 variables %q and %q must be declared back to back to be added", xv.Name, yv.Name)
		}
		l.emit(bfasm.I32AddOp{Index: xs.Index})
		return varSlot{xs.Index, value.KindI32}, nil
	}
	if xIsVar || yIsVar {
		return varSlot{}, errors.Errorf("bunf: I32 addition needs either two adjacent variables or two literals, not a mix")
	}
	base := l.scope.bump(2)
	if err := l.materializeI32At(x, base); err != nil {
		return varSlot{}, err
	}
	if err := l.materializeI32At(y, base+1); err != nil {
		return varSlot{}, err
	}
	l.emit(bfasm.I32AddOp{Index: base})
	return varSlot{base, value.KindI32}, nil
}

func (l *lowerer) materializeI32At(e Expr, idx int) error {
	lit, ok := literalValue(e)
	if !ok || lit.Kind != value.KindI32 {
		return errors.Errorf("bunf: expected an I32 literal, got %T", e)
	}
	l.emit(bfasm.SetOp{Index: idx, Value: lit})
	return nil
}

// binaryU32Like handles +, -, >, <, == over U32 operands, staging each
// operand into a fresh slot at the exact layout the underlying op
// requires (an adjacent pair for +/-, a [_, Empty, _, Empty, Empty]
// quintet for comparisons) rather than reusing whatever slot eval() would
// otherwise have picked for it.
func (l *lowerer) binaryU32Like(op string, x, y Expr, kind value.Kind) (varSlot, error) {
	if kind != value.KindU32 {
		return varSlot{}, errors.Errorf("bunf: operator %q is only defined for U32", op)
	}
	switch op {
	case "+", "-":
		base := l.scope.bump(2)
		if err := l.materializeAt(x, base, kind); err != nil {
			return varSlot{}, err
		}
		if err := l.materializeAt(y, base+1, kind); err != nil {
			return varSlot{}, err
		}
		if op == "+" {
			l.emit(bfasm.U32AddOp{Index: base})
		} else {
			l.emit(bfasm.U32SubUncheckedOp{Index: base})
		}
		return varSlot{base, value.KindU32}, nil
	case ">", "<", "==":
		base := l.scope.bump(5)
		if err := l.materializeAt(x, base, kind); err != nil {
			return varSlot{}, err
		}
		if err := l.materializeAt(y, base+2, kind); err != nil {
			return varSlot{}, err
		}
		switch op {
		case ">":
			l.emit(bfasm.GreaterThanOp{Index: base})
		case "<":
			l.emit(bfasm.LessThanOp{Index: base})
		case "==":
			l.emit(bfasm.EqualsOp{Index: base})
		}
		return varSlot{base, value.KindBool}, nil
	default:
		return varSlot{}, errors.Errorf("bunf: unsupported operator %q", op)
	}
}

// materializeAt writes e's value at the exact logical index idx (which
// must be unclaimed), for U32/Bool/Char only.
func (l *lowerer) materializeAt(e Expr, idx int, kind value.Kind) error {
	if lit, ok := literalValue(e); ok {
		if lit.Kind != kind {
			return errors.Errorf("bunf: literal has kind %s, want %s", lit.Kind, kind)
		}
		l.emit(bfasm.SetOp{Index: idx, Value: lit})
		l.scope.advance(idx + 1)
		return nil
	}
	if v, ok := e.(*VarExpr); ok {
		src, ok := l.scope.lookup(v.Name)
		if !ok {
			return errors.Errorf("bunf: undeclared variable %q", v.Name)
		}
		if src.Kind != kind {
			return errors.Errorf("bunf: %q has kind %s, want %s", v.Name, src.Kind, kind)
		}
		l.emit(bfasm.CopyValOp{Index: src.Index})
		l.emit(bfasm.MoveTypeOp{Src: src.Index + 1, Dst: idx})
		l.scope.advance(idx + 1)
		return nil
	}
	slot, err := l.eval(e)
	if err != nil {
		return err
	}
	if slot.Kind != kind {
		return errors.Errorf("bunf: operand has kind %s, want %s", slot.Kind, kind)
	}
	if slot.Index != idx {
		l.emit(bfasm.MoveTypeOp{Src: slot.Index, Dst: idx})
	}
	l.scope.advance(idx + 1)
	return nil
}

func (l *lowerer) indexExpr(n *IndexExpr) (varSlot, error) {
	xv, ok := n.X.(*VarExpr)
	if !ok {
		return varSlot{}, errors.Errorf("bunf: index expressions require a bare variable on the left")
	}
	v, ok := l.scope.lookup(xv.Name)
	if !ok {
		return varSlot{}, errors.Errorf("bunf: undeclared variable %q", xv.Name)
	}
	switch v.Kind {
	case value.KindArray, value.KindFString, value.KindIString:
	default:
		return varSlot{}, errors.Errorf("bunf: %q is not indexable", xv.Name)
	}
	if err := l.materializeAt(n.Index, v.Index+1, value.KindU32); err != nil {
		return varSlot{}, err
	}
	if v.Kind == value.KindArray {
		l.emit(bfasm.ArrayIndexOp{Index: v.Index})
		return varSlot{v.Index + 1, value.KindU32}, nil
	}
	l.emit(bfasm.StrIndexOp{Index: v.Index})
	return varSlot{v.Index + 1, value.KindChar}, nil
}

// methodCallExpr supports the one chained form spec.md §6.3 names:
// `s.chars().nth(i).unwrap()`, which is just indexing into a string by
// another name; it lowers identically to IndexExpr{s, i}.
func (l *lowerer) methodCallExpr(n *MethodCallExpr) (varSlot, error) {
	if n.Name != "unwrap" {
		return varSlot{}, errors.Errorf("bunf: unsupported method call %q", n.Name)
	}
	nth, ok := n.Recv.(*MethodCallExpr)
	if !ok || nth.Name != "nth" || len(nth.Args) != 1 {
		return varSlot{}, errors.Errorf("bunf: unwrap() must follow chars().nth(i)")
	}
	chars, ok := nth.Recv.(*MethodCallExpr)
	if !ok || chars.Name != "chars" || len(chars.Args) != 0 {
		return varSlot{}, errors.Errorf("bunf: nth(i) must follow a chars() call")
	}
	return l.indexExpr(&IndexExpr{X: chars.Recv, Index: nth.Args[0]})
}

// callExpr supports the bare built-ins: input_str(fixture), input_char(fixture),
// new_array(), print_u32(x), len(x), push(collection, value).
func (l *lowerer) callExpr(n *CallExpr) (varSlot, error) {
	switch n.Name {
	case "input_str":
		if len(n.Args) != 1 {
			return varSlot{}, errors.Errorf("bunf: input_str() needs a resolved fixture argument")
		}
		lit, ok := n.Args[0].(*StringLit)
		if !ok {
			return varSlot{}, errors.Errorf("bunf: input_str()'s fixture argument must be a string literal")
		}
		idx := l.scope.bump(3)
		l.emit(bfasm.InputOp{Index: idx, Value: value.IString(lit.Value)})
		return varSlot{idx, value.KindIString}, nil

	case "input_char":
		if len(n.Args) != 1 {
			return varSlot{}, errors.Errorf("bunf: input_char() needs a resolved fixture argument")
		}
		lit, ok := n.Args[0].(*CharLit)
		if !ok {
			return varSlot{}, errors.Errorf("bunf: input_char()'s fixture argument must be a char literal")
		}
		idx := l.scope.bump(3)
		l.emit(bfasm.InputOp{Index: idx, Value: value.CharVal(lit.Value)})
		return varSlot{idx, value.KindChar}, nil

	case "new_array":
		idx := l.scope.bump(3)
		l.emit(bfasm.SetOp{Index: idx, Value: value.Array(nil)})
		return varSlot{idx, value.KindArray}, nil

	case "print_u32":
		if len(n.Args) != 1 {
			return varSlot{}, errors.Errorf("bunf: print_u32(x) takes exactly one argument")
		}
		slot, err := l.eval(n.Args[0])
		if err != nil {
			return varSlot{}, err
		}
		if slot.Kind != value.KindU32 && slot.Kind != value.KindChar {
			return varSlot{}, errors.Errorf("bunf: print_u32 requires a U32 or Char, got %s", slot.Kind)
		}
		l.emit(bfasm.PrintOp{Index: slot.Index})
		return slot, nil

	case "len":
		if len(n.Args) != 1 {
			return varSlot{}, errors.Errorf("bunf: len(x) takes exactly one argument")
		}
		v, ok := n.Args[0].(*VarExpr)
		if !ok {
			return varSlot{}, errors.Errorf("bunf: len() requires a bare variable")
		}
		src, ok := l.scope.lookup(v.Name)
		if !ok {
			return varSlot{}, errors.Errorf("bunf: undeclared variable %q", v.Name)
		}
		l.emit(bfasm.LenOp{Index: src.Index})
		return varSlot{src.Index + 1, value.KindU32}, nil

	case "push":
		if len(n.Args) != 2 {
			return varSlot{}, errors.Errorf("bunf: push(collection, value) takes exactly two arguments")
		}
		v, ok := n.Args[0].(*VarExpr)
		if !ok {
			return varSlot{}, errors.Errorf("bunf: push()'s first argument must be a bare variable")
		}
		src, ok := l.scope.lookup(v.Name)
		if !ok {
			return varSlot{}, errors.Errorf("bunf: undeclared variable %q", v.Name)
		}
		switch src.Kind {
		case value.KindArray:
			if err := l.materializeAt(n.Args[1], src.Index+1, value.KindU32); err != nil {
				return varSlot{}, err
			}
			l.emit(bfasm.ArrayPushOp{Index: src.Index})
		case value.KindIString, value.KindFString:
			if err := l.materializeAt(n.Args[1], src.Index+1, value.KindChar); err != nil {
				return varSlot{}, err
			}
			l.emit(bfasm.StrPushFOp{Index: src.Index})
		default:
			return varSlot{}, errors.Errorf("bunf: %q cannot be pushed to", v.Name)
		}
		return varSlot{src.Index, src.Kind}, nil

	default:
		return varSlot{}, errors.Errorf("bunf: unsupported builtin %q", n.Name)
	}
}
