package bunf

import (
	"github.com/pkg/errors"

	"github.com/KittydaCat/BunF/value"
)

// varSlot is where a declared variable lives: a logical tape index and the
// shape it was declared with.
type varSlot struct {
	Index int
	Kind  value.Kind
}

// Scope records, per variable, the layout slot index and scratch width
// Lower assigned it, plus a bump cursor marking the first logical index
// nothing has claimed yet. It is returned alongside the lowered ops so a
// caller can look up where each source name ended up (Slot) and how large
// the layout is (Frontier); cmd/bunf sizes its shadow machine from Frontier.
type Scope struct {
	vars  map[string]varSlot
	order []string
	next  int
}

// NewScope returns an empty scope with its bump cursor at tape index 0.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]varSlot)}
}

// scratchWidth is how many logical slots a freshly declared variable of
// this kind claims in total: its own value slot plus the trailing slots it
// reserves as Empty.
//
// U32/Bool/Char claim 3 (2 reserved): enough for CopyVal's [v, Empty, Empty]
// precondition, so a later read never has to fight another variable for
// scratch. FString/IString/Array claim 3 for the same reason, which
// happens to exactly match ArrayPush/StrPushF's and StrIndex/ArrayIndex's
// [v, operand, Empty] shape when used directly at the variable's own
// site. I32 claims only its own slot: there is no MoveType for I32 (it spans two
// physical cells), so an I32 variable's value can never be relocated once
// declared — I32Add only works directly, in place, on two variables
// declared back to back. See lower.go's i32Add.
func scratchWidth(k value.Kind) int {
	if k == value.KindI32 {
		return 1
	}
	return 3
}

// declareAt registers name as a variable of kind k living at logical index
// idx, without touching the bump cursor. Callers that want idx to also be
// the new bump frontier should follow up with advance.
func (s *Scope) declareAt(name string, idx int, k value.Kind) error {
	if _, ok := s.vars[name]; ok {
		return errors.Errorf("bunf: %q already declared", name)
	}
	s.vars[name] = varSlot{Index: idx, Kind: k}
	s.order = append(s.order, name)
	return nil
}

// advance moves the bump cursor to idx if idx is further along, never
// backward (two variables can share overlapping scratch safely, but the
// frontier must only ever grow).
func (s *Scope) advance(idx int) {
	if idx > s.next {
		s.next = idx
	}
}

// bump claims width logical slots starting at the current frontier and
// advances past them.
func (s *Scope) bump(width int) int {
	i := s.next
	s.next += width
	return i
}

func (s *Scope) lookup(name string) (varSlot, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Slot reports the logical index and kind a declared variable was given.
func (s *Scope) Slot(name string) (index int, kind value.Kind, ok bool) {
	v, ok := s.vars[name]
	return v.Index, v.Kind, ok
}

// Names returns declared variable names in declaration order.
func (s *Scope) Names() []string {
	return append([]string{}, s.order...)
}

// Frontier is the first logical index nothing has claimed yet — the size,
// in logical slots, of the layout Lower produced.
func (s *Scope) Frontier() int { return s.next }
