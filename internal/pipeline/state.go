// SPDX-License-Identifier: MPL-2.0

package pipeline

import "fmt"

// State tracks one backend through a pipeline run. The only legal paths are
// Unchecked to Available to CommandBuilt to Executed and the terminal
// Unchecked to Unavailable; command building never proceeds past Unavailable.
type State int

const (
	// StateUnchecked is the initial state before the availability check.
	StateUnchecked State = iota
	// StateUnavailable is terminal: the backend cannot be invoked this run.
	StateUnavailable
	// StateAvailable means the availability check passed.
	StateAvailable
	// StateCommandBuilt means a full command vector exists for the backend.
	StateCommandBuilt
	// StateExecuted means the process ran, successfully or not.
	StateExecuted
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUnchecked:
		return "unchecked"
	case StateUnavailable:
		return "unavailable"
	case StateAvailable:
		return "available"
	case StateCommandBuilt:
		return "command-built"
	case StateExecuted:
		return "executed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// transitions lists the legal successor states.
var transitions = map[State][]State{
	StateUnchecked:    {StateAvailable, StateUnavailable},
	StateAvailable:    {StateCommandBuilt},
	StateCommandBuilt: {StateExecuted},
}

// Tracker enforces the per-backend state machine.
type Tracker struct {
	state State
}

// NewTracker starts a tracker in StateUnchecked.
func NewTracker() *Tracker {
	return &Tracker{state: StateUnchecked}
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Transition advances to the next state, or errors on an illegal move.
func (t *Tracker) Transition(to State) error {
	for _, legal := range transitions[t.state] {
		if legal == to {
			t.state = to
			return nil
		}
	}
	return fmt.Errorf("illegal state transition %s -> %s", t.state, to)
}
