package app

import (
	"sync"

	"github.com/bft-labs/hecship/internal/domain"
	"github.com/bft-labs/hecship/pkg/log"
)

// State represents the lifecycle state of a client.
type State int

const (
	StateNew State = iota
	StateRunning
	StateClosing
	StateClosed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateRunning:
		return "Running"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// EventEmitter is called when lifecycle state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// Lifecycle manages the state machine for a client.
// Valid transitions: New -> Running -> Closing -> Closed. Closed is terminal.
type Lifecycle struct {
	mu           sync.RWMutex
	state        State
	logger       log.Logger
	eventEmitter EventEmitter
}

// NewLifecycle creates a new lifecycle manager.
func NewLifecycle(logger log.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:        StateNew,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to transition to a new state.
// Returns an error if the transition is not valid.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	if err := validTransition(oldState, newState); err != nil {
		l.mu.Unlock()
		return err
	}

	l.state = newState
	l.mu.Unlock()

	// Emit event outside of lock
	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(oldState, newState, reason)
	}

	l.logger.Info("state transition",
		log.String("from", oldState.String()),
		log.String("to", newState.String()),
		log.String("reason", reason),
	)

	return nil
}

func validTransition(from, to State) error {
	switch from {
	case StateNew:
		if to == StateRunning {
			return nil
		}
		return domain.ErrNotOpen
	case StateRunning:
		if to == StateClosing {
			return nil
		}
		return domain.ErrAlreadyOpen
	case StateClosing:
		if to == StateClosed {
			return nil
		}
		return domain.ErrClosed
	default:
		return domain.ErrClosed
	}
}

// Accepting returns nil while submissions are allowed, otherwise the
// error a submitter should see.
func (l *Lifecycle) Accepting() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch l.state {
	case StateRunning:
		return nil
	case StateNew:
		return domain.ErrNotOpen
	default:
		return domain.ErrClosed
	}
}
