package tape

import "bytes"

// Program is an emitted tape-primitive program: a byte string over the
// opcode alphabet plus free-form comment bytes, append-only during
// emission.
type Program []byte

// Append adds instructions to the program, in order.
func (p *Program) Append(ops ...Instr) {
	for _, op := range ops {
		*p = append(*p, byte(op))
	}
}

// AppendComment appends free-form bytes that Run/RunToLabel will skip over.
// Used to annotate emitted code with the high-level operation that produced
// it, the way a disassembler-friendly assembler would.
func (p *Program) AppendComment(s string) {
	*p = append(*p, s...)
}

// Concat appends another program's instructions in place.
func (p *Program) Concat(other Program) {
	*p = append(*p, other...)
}

// String renders the program as its raw opcode-and-comment bytes.
func (p Program) String() string {
	return string(p)
}

// Parse extracts only the recognised opcode bytes from raw text, discarding
// anything else as a comment. Conforming interpreters never need this (Run
// already skips non-opcode bytes in place), but it is useful to normalise
// external text into a canonical Program.
func Parse(text string) Program {
	var buf bytes.Buffer
	for i := 0; i < len(text); i++ {
		if IsOpcode(text[i]) {
			buf.WriteByte(text[i])
		}
	}
	return Program(buf.Bytes())
}
