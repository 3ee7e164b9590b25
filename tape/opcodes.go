package tape

// Instr is one byte of an emitted Program. The opcode alphabet is exactly
// the eight Brainfuck primitives plus the LABEL marker; any other byte is a
// comment and is skipped by Run/RunToLabel and by Parse.
type Instr byte

// Tape-primitive opcodes.
const (
	OpInc       Instr = '+'
	OpDec       Instr = '-'
	OpLeft      Instr = '<'
	OpRight     Instr = '>'
	OpRead      Instr = ','
	OpWrite     Instr = '.'
	OpLoopBegin Instr = '['
	OpLoopEnd   Instr = ']'
	OpLabel     Instr = 'L'
)

// IsOpcode reports whether b is one of the nine recognised instruction
// bytes. Anything else is a comment byte, per spec.
func IsOpcode(b byte) bool {
	switch Instr(b) {
	case OpInc, OpDec, OpLeft, OpRight, OpRead, OpWrite, OpLoopBegin, OpLoopEnd, OpLabel:
		return true
	default:
		return false
	}
}
