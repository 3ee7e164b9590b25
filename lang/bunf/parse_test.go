package bunf_test

import (
	"strings"
	"testing"

	"github.com/KittydaCat/BunF/lang/bunf"
)

func TestParseLetAndArithmetic(t *testing.T) {
	src := `
		let x = 5;
		let y = 3;
		let z = x + y;
	`
	p := bunf.NewParser(nil, nil)
	prog, err := p.Parse("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog))
	}
	let, ok := prog[2].(*bunf.LetStmt)
	if !ok {
		t.Fatalf("statement 2 is %T, want *LetStmt", prog[2])
	}
	bin, ok := let.Value.(*bunf.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("z's initializer is %#v, want a + BinaryExpr", let.Value)
	}
}

func TestParseIfWhileMatch(t *testing.T) {
	src := `
		let n = 3;
		while n > 0 {
			n -= 1;
		}
		if n == 0 {
			n = 1;
		}
		match c {
			'a' => { n = 1; },
			_ => {}
		}
	`
	p := bunf.NewParser(nil, nil)
	prog, err := p.Parse("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog) != 4 {
		t.Fatalf("got %d statements, want 4", len(prog))
	}
	w, ok := prog[1].(*bunf.WhileStmt)
	if !ok {
		t.Fatalf("statement 1 is %T, want *WhileStmt", prog[1])
	}
	if len(w.Body) != 1 {
		t.Fatalf("while body has %d statements, want 1", len(w.Body))
	}
	if _, ok := w.Body[0].(*bunf.CompoundAssignStmt); !ok {
		t.Fatalf("while body statement is %T, want *CompoundAssignStmt", w.Body[0])
	}
	m, ok := prog[3].(*bunf.MatchStmt)
	if !ok {
		t.Fatalf("statement 3 is %T, want *MatchStmt", prog[3])
	}
	if len(m.Arms) != 2 || !m.Arms[1].Wildcard {
		t.Fatalf("match arms = %#v, want a literal arm then a wildcard", m.Arms)
	}
}

func TestParseInputStrResolvesFixtureInOrder(t *testing.T) {
	src := `
		let a = input_str();
		let b = input_str();
	`
	p := bunf.NewParser([]string{"hello", "world"}, nil)
	prog, err := p.Parse("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i, want := range []string{"hello", "world"} {
		let := prog[i].(*bunf.LetStmt)
		call := let.Value.(*bunf.CallExpr)
		lit := call.Args[0].(*bunf.StringLit)
		if string(lit.Value) != want {
			t.Errorf("fixture %d = %q, want %q", i, lit.Value, want)
		}
	}
}

func TestParseArrayPushAndIndex(t *testing.T) {
	src := `
		let a = new_array();
		push(a, 7);
		let x = a[0];
	`
	p := bunf.NewParser(nil, nil)
	prog, err := p.Parse("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog))
	}
	let := prog[2].(*bunf.LetStmt)
	if _, ok := let.Value.(*bunf.IndexExpr); !ok {
		t.Fatalf("x's initializer is %T, want *IndexExpr", let.Value)
	}
}

func TestParseChainedMethodCall(t *testing.T) {
	src := `let c = program.chars().nth(i).unwrap();`
	p := bunf.NewParser(nil, nil)
	prog, err := p.Parse("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	let := prog[0].(*bunf.LetStmt)
	outer, ok := let.Value.(*bunf.MethodCallExpr)
	if !ok || outer.Name != "unwrap" {
		t.Fatalf("c's initializer is %#v, want an unwrap() MethodCallExpr", let.Value)
	}
}

func TestParseTooManyErrorsAborts(t *testing.T) {
	src := strings.Repeat("@ ", 20)
	p := bunf.NewParser(nil, nil)
	_, err := p.Parse("test", strings.NewReader(src))
	if err == nil {
		t.Fatal("garbage input should fail to parse")
	}
	errs, ok := err.(bunf.ErrBunf)
	if !ok {
		t.Fatalf("error %T, want ErrBunf", err)
	}
	if len(errs) > 10 {
		t.Fatalf("got %d errors, want at most the 10-error abort threshold", len(errs))
	}
}
