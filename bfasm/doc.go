// Package bfasm implements the shadow machine, the operation library, and
// the control-structure compiler: the typed assembler that turns a sequence
// of high-level operations into a tape.Program while keeping a compile-time
// mirror of the tape's logical layout in lock-step with the emitted code.
//
// A Machine holds the logical cell sequence, the emitted instruction
// buffer, the logical cursor, and the accumulated I/O traces. Every
// exported method on Machine is one operation from the catalogue: it
// checks the operation's required local shape, mutates the logical cells,
// emits tape.Instr primitives, and updates the cursor, all as one step.
package bfasm
