// Package bfw holds small internal helpers shared by the bfasm compiler —
// "bunf internal", named after the teacher's own internal/ngi grab-bag
// package.
package bfw

import "github.com/KittydaCat/BunF/tape"

// Gate wraps an append-only tape.Program with an enable flag. Code emission
// can be suspended during the compile-time dry-run re-execution that the
// control-structure compiler performs (see bfasm.Machine.runSuppressed)
// without swapping the underlying buffer out from under in-flight label
// bookkeeping — only Enabled needs to flip, mirroring how the teacher's
// ErrWriter wraps an io.Writer to add state without changing its identity.
type Gate struct {
	Prog    *tape.Program
	Enabled bool
}

// NewGate returns a Gate over prog with emission enabled.
func NewGate(prog *tape.Program) *Gate {
	return &Gate{Prog: prog, Enabled: true}
}

// Emit appends ops if the gate is enabled; it is a no-op otherwise.
func (g *Gate) Emit(ops ...tape.Instr) {
	if !g.Enabled {
		return
	}
	g.Prog.Append(ops...)
}

// Comment appends a free-form comment if the gate is enabled.
func (g *Gate) Comment(s string) {
	if !g.Enabled {
		return
	}
	g.Prog.AppendComment(s)
}

// Label appends a LABEL marker if the gate is enabled.
func (g *Gate) Label() {
	if !g.Enabled {
		return
	}
	g.Prog.Append(tape.OpLabel)
}
