package bunf_test

import (
	"bytes"
	"testing"

	"github.com/KittydaCat/BunF/bfasm"
	"github.com/KittydaCat/BunF/lang/bunf"
	"github.com/KittydaCat/BunF/tape"
	"github.com/KittydaCat/BunF/value"
)

// run lowers prog, applies the resulting ops to a fresh machine, and fails
// the test on any error — mirroring bfasm_test's mustApply/runAndCheckSync
// pair, since lang/bunf's contract is "emit ops bfasm.Exec accepts", not
// its own independent correctness proof.
func run(t *testing.T, prog []bunf.Stmt) (*bfasm.Machine, *bunf.Scope) {
	t.Helper()
	ops, scope, err := bunf.Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	m := bfasm.NewMachine()
	if _, err := bfasm.Exec(ops, m); err != nil {
		t.Fatalf("Exec: %v", err)
	}

	var out bytes.Buffer
	in := tape.New(tape.WithInput(bytes.NewReader(m.ExpectedIn)), tape.WithOutput(&out))
	if err := in.Run(m.Code()); err != nil {
		t.Fatalf("running emitted code: %v", err)
	}
	return m, scope
}

func slotOf(t *testing.T, s *bunf.Scope, name string) int {
	t.Helper()
	idx, _, ok := s.Slot(name)
	if !ok {
		t.Fatalf("%q was not declared", name)
	}
	return idx
}

func TestLowerLetLiteral(t *testing.T) {
	prog := []bunf.Stmt{
		&bunf.LetStmt{Name: "x", Value: &bunf.IntLit{Value: 5}},
	}
	m, s := run(t, prog)
	if got := m.Cells[slotOf(t, s, "x")]; got != value.U32Val(5) {
		t.Errorf("x = %s, want U32(5)", got)
	}
}

func TestLowerU32Arithmetic(t *testing.T) {
	prog := []bunf.Stmt{
		&bunf.LetStmt{Name: "x", Value: &bunf.IntLit{Value: 5}},
		&bunf.LetStmt{Name: "y", Value: &bunf.IntLit{Value: 3}},
		&bunf.LetStmt{Name: "z", Value: &bunf.BinaryExpr{Op: "+", X: &bunf.VarExpr{Name: "x"}, Y: &bunf.VarExpr{Name: "y"}}},
	}
	m, s := run(t, prog)
	if got := m.Cells[slotOf(t, s, "z")]; got != value.U32Val(8) {
		t.Errorf("z = %s, want U32(8)", got)
	}
	// x, y must survive unscathed: binary ops read through copies.
	if got := m.Cells[slotOf(t, s, "x")]; got != value.U32Val(5) {
		t.Errorf("x = %s, want U32(5) (unchanged)", got)
	}
	if got := m.Cells[slotOf(t, s, "y")]; got != value.U32Val(3) {
		t.Errorf("y = %s, want U32(3) (unchanged)", got)
	}
}

func TestLowerComparison(t *testing.T) {
	prog := []bunf.Stmt{
		&bunf.LetStmt{Name: "x", Value: &bunf.IntLit{Value: 5}},
		&bunf.LetStmt{Name: "y", Value: &bunf.IntLit{Value: 3}},
		&bunf.LetStmt{Name: "gt", Value: &bunf.BinaryExpr{Op: ">", X: &bunf.VarExpr{Name: "x"}, Y: &bunf.VarExpr{Name: "y"}}},
	}
	m, s := run(t, prog)
	if got := m.Cells[slotOf(t, s, "gt")]; got != value.BoolVal(true) {
		t.Errorf("gt = %s, want Bool(true)", got)
	}
}

func TestLowerI32AddAdjacentVariables(t *testing.T) {
	prog := []bunf.Stmt{
		&bunf.LetStmt{Name: "a", Value: &bunf.NegIntLit{Value: -3}},
		&bunf.LetStmt{Name: "b", Value: &bunf.IntLit{Value: 0}}, // placeholder, overwritten below
	}
	// construct b as an I32 literal directly so a,b land adjacently.
	prog[1] = &bunf.LetStmt{Name: "b", Value: &bunf.NegIntLit{Value: 5}}
	prog = append(prog, &bunf.LetStmt{Name: "c", Value: &bunf.BinaryExpr{Op: "+", X: &bunf.VarExpr{Name: "a"}, Y: &bunf.VarExpr{Name: "b"}}})

	m, s := run(t, prog)
	c := m.Cells[slotOf(t, s, "c")]
	if c.Kind != value.KindI32 || c.I32 != 2 {
		t.Errorf("c = %s, want I32(2)", c)
	}
}

func TestLowerIfRunsBodyWhenTrue(t *testing.T) {
	prog := []bunf.Stmt{
		&bunf.LetStmt{Name: "cond", Value: &bunf.BoolLit{Value: true}},
		&bunf.LetStmt{Name: "x", Value: &bunf.IntLit{Value: 1}},
		&bunf.IfStmt{
			Cond: &bunf.VarExpr{Name: "cond"},
			Body: []bunf.Stmt{
				&bunf.AssignStmt{Name: "x", Value: &bunf.IntLit{Value: 9}},
			},
		},
	}
	m, s := run(t, prog)
	if got := m.Cells[slotOf(t, s, "x")]; got != value.U32Val(9) {
		t.Errorf("x = %s, want U32(9)", got)
	}
}

func TestLowerWhileCountsDownToZero(t *testing.T) {
	prog := []bunf.Stmt{
		&bunf.LetStmt{Name: "n", Value: &bunf.IntLit{Value: 3}},
		&bunf.LetStmt{Name: "more", Value: &bunf.BinaryExpr{Op: ">", X: &bunf.VarExpr{Name: "n"}, Y: &bunf.IntLit{Value: 0}}},
		&bunf.WhileStmt{
			Cond: &bunf.VarExpr{Name: "more"},
			Body: []bunf.Stmt{
				&bunf.CompoundAssignStmt{Name: "n", Op: "-=", Value: &bunf.IntLit{Value: 1}},
				&bunf.AssignStmt{Name: "more", Value: &bunf.BinaryExpr{Op: ">", X: &bunf.VarExpr{Name: "n"}, Y: &bunf.IntLit{Value: 0}}},
			},
		},
	}
	m, s := run(t, prog)
	if got := m.Cells[slotOf(t, s, "n")]; got != value.U32Val(0) {
		t.Errorf("n = %s, want U32(0)", got)
	}
	if got := m.Cells[slotOf(t, s, "more")]; got != value.BoolVal(false) {
		t.Errorf("more = %s, want Bool(false)", got)
	}
}

func TestLowerMatchSelectsArm(t *testing.T) {
	prog := []bunf.Stmt{
		&bunf.LetStmt{Name: "c", Value: &bunf.CharLit{Value: '2'}},
		&bunf.LetStmt{Name: "out", Value: &bunf.IntLit{Value: 0}},
		&bunf.MatchStmt{
			Subject: &bunf.VarExpr{Name: "c"},
			Arms: []bunf.MatchArmStmt{
				{Lit: '1', Body: []bunf.Stmt{&bunf.AssignStmt{Name: "out", Value: &bunf.IntLit{Value: 11}}}},
				{Lit: '2', Body: []bunf.Stmt{&bunf.AssignStmt{Name: "out", Value: &bunf.IntLit{Value: 22}}}},
				{Wildcard: true},
			},
		},
	}
	m, s := run(t, prog)
	if got := m.Cells[slotOf(t, s, "out")]; got != value.U32Val(22) {
		t.Errorf("out = %s, want U32(22)", got)
	}
}

func TestLowerArrayPushAndIndex(t *testing.T) {
	prog := []bunf.Stmt{
		&bunf.LetStmt{Name: "a", Value: &bunf.CallExpr{Name: "new_array"}},
		&bunf.ExprStmt{Value: &bunf.CallExpr{Name: "push", Args: []bunf.Expr{&bunf.VarExpr{Name: "a"}, &bunf.IntLit{Value: 7}}}},
		&bunf.ExprStmt{Value: &bunf.CallExpr{Name: "push", Args: []bunf.Expr{&bunf.VarExpr{Name: "a"}, &bunf.IntLit{Value: 8}}}},
		&bunf.LetStmt{Name: "n", Value: &bunf.CallExpr{Name: "len", Args: []bunf.Expr{&bunf.VarExpr{Name: "a"}}}},
	}
	m, s := run(t, prog)
	a := m.Cells[slotOf(t, s, "a")]
	if a.Kind != value.KindArray || len(a.Arr) != 2 || a.Arr[0] != 7 || a.Arr[1] != 8 {
		t.Errorf("a = %s, want Array([7 8])", a)
	}
	if got := m.Cells[slotOf(t, s, "n")]; got != value.U32Val(2) {
		t.Errorf("n = %s, want U32(2)", got)
	}
}

func TestLowerIndexAssign(t *testing.T) {
	prog := []bunf.Stmt{
		&bunf.LetStmt{Name: "a", Value: &bunf.CallExpr{Name: "new_array"}},
		&bunf.ExprStmt{Value: &bunf.CallExpr{Name: "push", Args: []bunf.Expr{&bunf.VarExpr{Name: "a"}, &bunf.IntLit{Value: 1}}}},
		&bunf.IndexAssignStmt{Name: "a", Index: &bunf.IntLit{Value: 0}, Value: &bunf.IntLit{Value: 42}},
	}
	m, s := run(t, prog)
	a := m.Cells[slotOf(t, s, "a")]
	if a.Kind != value.KindArray || len(a.Arr) != 1 || a.Arr[0] != 42 {
		t.Errorf("a = %s, want Array([42])", a)
	}
}

func TestLowerUndeclaredVariableIsAnError(t *testing.T) {
	_, _, err := bunf.Lower([]bunf.Stmt{
		&bunf.ExprStmt{Value: &bunf.VarExpr{Name: "nope"}},
	})
	if err == nil {
		t.Fatal("referencing an undeclared variable should fail to lower")
	}
}

func TestLowerI32NonAdjacentVariablesIsAnError(t *testing.T) {
	_, _, err := bunf.Lower([]bunf.Stmt{
		&bunf.LetStmt{Name: "a", Value: &bunf.NegIntLit{Value: 1}},
		&bunf.LetStmt{Name: "mid", Value: &bunf.IntLit{Value: 0}},
		&bunf.LetStmt{Name: "b", Value: &bunf.NegIntLit{Value: 2}},
		&bunf.ExprStmt{Value: &bunf.BinaryExpr{Op: "+", X: &bunf.VarExpr{Name: "a"}, Y: &bunf.VarExpr{Name: "b"}}},
	})
	if err == nil {
		t.Fatal("adding two non-adjacent I32 variables should fail to lower")
	}
}
