package tape

import (
	"io"

	"github.com/pkg/errors"
)

// Cell is the raw non-negative integer type stored at each tape position.
type Cell uint32

// Option configures a new Interp, following the functional-options pattern
// the teacher VM uses for its own Instance constructor.
type Option func(*Interp)

// WithCapacity pre-allocates the tape to the given number of cells. The
// tape still grows on demand past this point; this only avoids repeated
// reallocation for programs with a known rough working-set size.
func WithCapacity(n int) Option {
	return func(in *Interp) {
		if n > len(in.Tape) {
			grown := make([]Cell, n)
			copy(grown, in.Tape)
			in.Tape = grown
		}
	}
}

// WithInput sets the character source consumed by READ.
func WithInput(r io.RuneReader) Option {
	return func(in *Interp) { in.Input = r }
}

// WithOutput sets the character sink written to by WRITE.
func WithOutput(w io.Writer) Option {
	return func(in *Interp) { in.Output = w }
}

// Interp is the tape-primitive abstract machine: a growable sequence of
// non-negative integer cells, a cursor, an input character stream and an
// output character sink.
type Interp struct {
	Tape   []Cell
	Cursor int

	Input  io.RuneReader
	Output io.Writer

	insCount int64
}

// New creates a tape interpreter with a single zeroed cell at the origin.
func New(opts ...Option) *Interp {
	in := &Interp{Tape: []Cell{0}}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// InstructionCount returns the number of primitive instructions executed by
// the most recent Run/RunToLabel call.
func (in *Interp) InstructionCount() int64 { return in.insCount }

func (in *Interp) ensure(pos int) {
	for pos >= len(in.Tape) {
		in.Tape = append(in.Tape, 0)
	}
}

func (in *Interp) cell() Cell { return in.Tape[in.Cursor] }

// matchForward finds the LoopEnd matching the LoopBegin at ip, scanning
// forward and tracking bracket depth, in the spirit of the reference
// interpreter's bracket-equalising walk.
func matchForward(p Program, ip int) (int, error) {
	depth := 0
	for i := ip; i < len(p); i++ {
		switch Instr(p[i]) {
		case OpLoopBegin:
			depth++
		case OpLoopEnd:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.Wrapf(ErrUnbalancedBrackets, "no matching ] for [ at %d", ip)
}

func matchBackward(p Program, ip int) (int, error) {
	depth := 0
	for i := ip; i >= 0; i-- {
		switch Instr(p[i]) {
		case OpLoopEnd:
			depth++
		case OpLoopBegin:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.Wrapf(ErrUnbalancedBrackets, "no matching [ for ] at %d", ip)
}

// Run executes prog from the beginning to completion, consuming from Input
// and writing to Output as directed by READ/WRITE. It returns the first
// error encountered, wrapped with the offending instruction index.
func (in *Interp) Run(prog Program) error {
	_, err := in.run(prog, 0, -1)
	return err
}

// RunToLabel executes prog starting at ip until the next LABEL marker (or
// end of program), returning the index just past the label reached, so a
// caller can run emitted code a fragment at a time.
func (in *Interp) RunToLabel(prog Program, ip int) (int, error) {
	return in.run(prog, ip, int(OpLabel))
}

func (in *Interp) run(prog Program, ip int, stopOn int) (int, error) {
	in.insCount = 0
	for ip < len(prog) {
		op := Instr(prog[ip])
		switch op {
		case OpInc:
			in.Tape[in.Cursor]++
			ip++
		case OpDec:
			if in.cell() == 0 {
				return ip, errors.Wrapf(ErrNegativeCell, "at instruction %d", ip)
			}
			in.Tape[in.Cursor]--
			ip++
		case OpLeft:
			if in.Cursor == 0 {
				return ip, errors.Wrapf(ErrNegativeCursor, "at instruction %d", ip)
			}
			in.Cursor--
			ip++
		case OpRight:
			in.Cursor++
			in.ensure(in.Cursor)
			ip++
		case OpRead:
			if in.Input == nil {
				return ip, errors.Wrapf(ErrInputFailed, "at instruction %d: no input configured", ip)
			}
			r, _, err := in.Input.ReadRune()
			if err != nil {
				return ip, errors.Wrapf(ErrInputFailed, "at instruction %d", ip)
			}
			if r < 0 || r > 127 {
				return ip, errors.Wrapf(ErrNonASCII, "at instruction %d: rune %q", ip, r)
			}
			in.Tape[in.Cursor] = Cell(r)
			ip++
		case OpWrite:
			v := in.cell()
			if v > 127 {
				return ip, errors.Wrapf(ErrNonASCII, "at instruction %d: value %d", ip, v)
			}
			if in.Output != nil {
				if _, err := in.Output.Write([]byte{byte(v)}); err != nil {
					return ip, errors.Wrapf(err, "at instruction %d: write failed", ip)
				}
			}
			ip++
		case OpLoopBegin:
			if in.cell() == 0 {
				end, err := matchForward(prog, ip)
				if err != nil {
					return ip, err
				}
				ip = end + 1
			} else {
				ip++
			}
		case OpLoopEnd:
			if in.cell() != 0 {
				begin, err := matchBackward(prog, ip)
				if err != nil {
					return ip, err
				}
				ip = begin
			} else {
				ip++
			}
		case OpLabel:
			ip++
			if stopOn == int(OpLabel) {
				in.insCount++
				return ip, nil
			}
		default:
			// comment byte: ignored
			ip++
			continue
		}
		in.insCount++
	}
	return ip, nil
}
