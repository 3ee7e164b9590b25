package tape

import "github.com/pkg/errors"

// Sentinel tape-runtime errors, per the failure model: these are reported
// only by the interpreter, never by the shadow machine or operation
// library (those report shape/operational errors instead).
var (
	ErrNegativeCell            = errors.New("tape: decrement of zero cell")
	ErrNegativeCursor          = errors.New("tape: cursor moved left of origin")
	ErrUnbalancedBrackets      = errors.New("tape: unbalanced loop brackets")
	ErrInputFailed             = errors.New("tape: input stream exhausted")
	ErrNonASCII                = errors.New("tape: non-ASCII byte")
	ErrInvalidInstructionIndex = errors.New("tape: instruction index out of range")
)
