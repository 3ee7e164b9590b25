package bfasm

import (
	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/KittydaCat/BunF/value"
)

// Option configures a new Machine, following the same functional-options
// pattern the teacher VM uses for vm.Option.
type Option func(*Machine)

// WithDebug enables the optional debug mode: every operation the machine
// applies logs its name and logical index, prefixed with the session ID,
// at glog -v=1. It does not run the tape interpreter or check the emitted
// code against the shadow's cells.
func WithDebug(enabled bool) Option {
	return func(m *Machine) { m.debug = enabled }
}

// WithCapacity pre-allocates the logical cell sequence with Empty slots,
// avoiding repeated growth for programs with a known rough variable count.
func WithCapacity(n int) Option {
	return func(m *Machine) {
		for len(m.Cells) < n {
			m.Cells = append(m.Cells, value.Empty)
		}
	}
}

// sessionLogPrefix returns the glog line prefix identifying this
// compilation session, so batched/concurrent compilations can be told
// apart in logs.
func (m *Machine) sessionLogPrefix() string {
	return m.SessionID.String()[:8]
}

func newSessionID() uuid.UUID { return uuid.New() }

func (m *Machine) logOp(name string, index int) {
	if m.debug {
		glog.V(1).Infof("[%s] %s(%d)", m.sessionLogPrefix(), name, index)
	}
}
