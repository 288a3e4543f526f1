package provision

import (
	"fmt"
	"time"
)

// State is a step of the provisioning state machine.
type State int

const (
	StateDiscovering State = iota
	StateAwaitingWriteUnlock
	StateDeviceBinding
	StateWriting
	StateVerifying
	StateAwaitingWriteLock
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateDiscovering:         "discovering",
	StateAwaitingWriteUnlock: "awaiting_write_unlock",
	StateDeviceBinding:       "device_binding",
	StateWriting:             "writing",
	StateVerifying:           "verifying",
	StateAwaitingWriteLock:   "awaiting_write_lock",
	StateDone:                "done",
	StateFailed:              "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Outcome is the result of the last verification pass.
type Outcome int

const (
	// OutcomePending means verification has not completed
	OutcomePending Outcome = iota

	// OutcomeVerified means the read-back matched the image byte for byte
	OutcomeVerified

	// OutcomeFailed means the session failed before or during verification
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeVerified:
		return "verified"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Session records one provisioning attempt. It is returned by
// Programmer.Provision for reporting and is not reused.
type Session struct {
	// Bus is the bus number of the target
	Bus int

	// Address is the resolved device address (zero until discovery ends)
	Address uint16

	// Image is the source image
	Image []byte

	// State is the current (after Provision returns, final) state
	State State

	// Outcome is the verification outcome
	Outcome Outcome

	// Err is the error that moved the session to StateFailed
	Err error

	// Written is the number of image bytes written
	Written int

	// Started is when the session began
	Started time.Time

	// Elapsed is the total session duration
	Elapsed time.Duration

	history []State
}

func newSession(bus int, image []byte) *Session {
	return &Session{
		Bus:     bus,
		Image:   image,
		State:   StateDiscovering,
		Started: time.Now(),
		history: []State{StateDiscovering},
	}
}

// History returns the states visited in order.
func (s *Session) History() []State {
	out := make([]State, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) enter(state State) {
	s.State = state
	s.history = append(s.history, state)
}

func (s *Session) fail(err error) {
	s.Err = err
	if s.Outcome == OutcomePending {
		s.Outcome = OutcomeFailed
	}
	s.enter(StateFailed)
	s.Elapsed = time.Since(s.Started)
}

func (s *Session) finish() {
	s.enter(StateDone)
	s.Elapsed = time.Since(s.Started)
}
