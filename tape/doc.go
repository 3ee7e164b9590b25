// Package tape implements the tape-primitive abstract machine: a minimal
// interpreter for Brainfuck-alphabet programs over a growable, non-negative
// integer tape.
//
// It supports eight opcodes (+ - < > , . [ ]) plus a no-op LABEL marker (L)
// used by incremental code-emission validators to bound single-step runs.
// Any byte outside this alphabet is treated as a comment and ignored, so a
// Program can carry free-form annotations alongside the opcodes that
// actually drive the machine.
//
// Two run modes are provided: Run executes a Program to completion (or
// until the first runtime error, such as ErrInputFailed when input is
// exhausted), and RunToLabel executes until the next LABEL marker, so a
// caller can run a program one labelled fragment at a time.
package tape
