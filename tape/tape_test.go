package tape_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KittydaCat/BunF/tape"
)

func runProg(t *testing.T, prog string, in string) (*tape.Interp, string, error) {
	t.Helper()
	var out bytes.Buffer
	interp := tape.New(tape.WithInput(strings.NewReader(in)), tape.WithOutput(&out))
	err := interp.Run(tape.Parse(prog))
	return interp, out.String(), err
}

func TestBasicArithmetic(t *testing.T) {
	interp, _, err := runProg(t, "+++", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if interp.Tape[0] != 3 {
		t.Fatalf("cell 0 = %d, want 3", interp.Tape[0])
	}
}

func TestDecrementBelowZeroFails(t *testing.T) {
	_, _, err := runProg(t, "-", "")
	if err == nil {
		t.Fatal("expected NegativeCell error")
	}
}

func TestCursorLeftOfOriginFails(t *testing.T) {
	_, _, err := runProg(t, "<", "")
	if err == nil {
		t.Fatal("expected NegativeCursor error")
	}
}

func TestTapeGrowsOnDemand(t *testing.T) {
	interp, _, err := runProg(t, ">>>+", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(interp.Tape) < 4 {
		t.Fatalf("tape did not grow, len=%d", len(interp.Tape))
	}
	if interp.Tape[3] != 1 {
		t.Fatalf("cell 3 = %d, want 1", interp.Tape[3])
	}
}

func TestEchoViaReadWrite(t *testing.T) {
	_, out, err := runProg(t, ",.", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "A" {
		t.Fatalf("output = %q, want %q", out, "A")
	}
}

func TestLoopZeroesCell(t *testing.T) {
	interp, _, err := runProg(t, "+++++[-]", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if interp.Tape[0] != 0 {
		t.Fatalf("cell 0 = %d, want 0", interp.Tape[0])
	}
}

func TestMoveValueLoop(t *testing.T) {
	// classic [->+<] move idiom: cell 0 = 5 moves to cell 1.
	interp, _, err := runProg(t, "+++++[->+<]", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if interp.Tape[0] != 0 || interp.Tape[1] != 5 {
		t.Fatalf("tape = %v, want [0 5]", interp.Tape[:2])
	}
}

func TestUnbalancedBrackets(t *testing.T) {
	_, _, err := runProg(t, "[+", "")
	if err == nil {
		t.Fatal("expected UnbalancedBrackets error")
	}
}

func TestInputExhausted(t *testing.T) {
	_, _, err := runProg(t, ",", "")
	if err == nil {
		t.Fatal("expected InputFailed error")
	}
}

func TestNonASCIIOutputFails(t *testing.T) {
	_, _, err := runProg(t, "++++++++[>+++++++++++++++++<-]>.", "")
	if err == nil {
		t.Fatal("expected NonAscii error for cell value > 127")
	}
}

func TestCommentBytesIgnored(t *testing.T) {
	interp, _, err := runProg(t, "( a comment ) +++ ( another )", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if interp.Tape[0] != 3 {
		t.Fatalf("cell 0 = %d, want 3", interp.Tape[0])
	}
}

func TestRunToLabel(t *testing.T) {
	prog := tape.Parse("+L++L+")
	interp := tape.New()
	next, err := interp.RunToLabel(prog, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if interp.Tape[0] != 1 {
		t.Fatalf("after first label, cell 0 = %d, want 1", interp.Tape[0])
	}
	next, err = interp.RunToLabel(prog, next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if interp.Tape[0] != 3 {
		t.Fatalf("after second label, cell 0 = %d, want 3", interp.Tape[0])
	}
	if _, err := interp.RunToLabel(prog, next); err != nil {
		t.Fatalf("unexpected error running remainder: %v", err)
	}
	if interp.Tape[0] != 4 {
		t.Fatalf("final cell 0 = %d, want 4", interp.Tape[0])
	}
}
