package bfasm

import (
	"fmt"
	"strings"

	"github.com/KittydaCat/BunF/value"
)

// Shape errors arise during code emission and always abort the enclosing
// operation: the op's required local shape was not satisfied.

// TypeMismatchError reports that the cells starting at Index did not match
// the shape an operation required.
type TypeMismatchError struct {
	Op       string
	Index    int
	Expected []value.Kind
	Found    []value.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("bfasm: %s at %d: expected shape %v, found %v",
		e.Op, e.Index, kindsString(e.Expected), kindsString(e.Found))
}

func kindsString(ks []value.Kind) string {
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = k.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// InvalidMatchArmError reports that a control-structure body failed the
// shape-preservation check, that a sub-operation raised a shape error
// during dry-run, or that CharMatch arms were not strictly ascending.
type InvalidMatchArmError struct {
	ArmIndex int
	Reason   string
	Cause    error
}

func (e *InvalidMatchArmError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bfasm: invalid arm %d: %s: %v", e.ArmIndex, e.Reason, e.Cause)
	}
	return fmt.Sprintf("bfasm: invalid arm %d: %s", e.ArmIndex, e.Reason)
}

func (e *InvalidMatchArmError) Unwrap() error { return e.Cause }

// ArrayIndexOutOfRangeError reports that ArrayIndex/ArrayIndexF was asked
// to read past the end of the array. Unlike StrIndex (which has a defined
// "index == length" edge case and reports an op-error), indexing an array
// out of range has no defined recovery in the original assembly — the
// emitted idiom would walk off the end of the sentinel structure — so this
// is a shape error that aborts the operation instead of an op-error.
type ArrayIndexOutOfRangeError struct {
	Index int
	K     uint32
	Len   int
}

func (e *ArrayIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("bfasm: array index %d at %d out of range for len %d", e.K, e.Index, e.Len)
}

// Operational errors arise during the literal dry-run of compile-time-known
// values. They are recoverable: the emitted code is still correct for its
// type-state, the error merely documents that this concrete execution path
// would fail at runtime. OpError is the interface all of them share so
// ErrorsInBlock can aggregate heterogeneously.
type OpError interface {
	error
	opError()
}

// UnderflowError is raised by U32SubUnchecked when the minuend is smaller
// than the subtrahend.
type UnderflowError struct {
	Index int
	A, B  uint32
}

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("bfasm: U32 underflow at %d: %d - %d", e.Index, e.A, e.B)
}
func (*UnderflowError) opError() {}

// InvalidStringIndexError is raised by StrIndex when k is out of range for
// the string's current length.
type InvalidStringIndexError struct {
	Index int
	K     uint32
	Len   int
}

func (e *InvalidStringIndexError) Error() string {
	return fmt.Sprintf("bfasm: invalid string index %d at %d: len %d", e.K, e.Index, e.Len)
}
func (*InvalidStringIndexError) opError() {}

// ErrorsInBlock aggregates the op-errors raised while dry-running a
// control-structure body. The emitted code is still correct for its
// type-state; these errors document that a particular concrete execution
// path would fail.
type ErrorsInBlock struct {
	Errors []OpError
}

func (e *ErrorsInBlock) Error() string {
	parts := make([]string, len(e.Errors))
	for i, sub := range e.Errors {
		parts[i] = sub.Error()
	}
	return fmt.Sprintf("bfasm: %d op-error(s) in block: %s", len(e.Errors), strings.Join(parts, "; "))
}
func (*ErrorsInBlock) opError() {}

// asErrorsInBlock wraps a non-empty slice of op-errors as an *ErrorsInBlock,
// or returns nil if the slice is empty.
func asErrorsInBlock(errs []OpError) *ErrorsInBlock {
	if len(errs) == 0 {
		return nil
	}
	return &ErrorsInBlock{Errors: errs}
}
