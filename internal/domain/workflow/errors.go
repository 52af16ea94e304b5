package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger has no transition out of a state
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not a known state
	ErrInvalidState = errors.New("invalid state")

	// ErrGuardFailed is returned when every guarded transition for a trigger was rejected
	ErrGuardFailed = errors.New("guard condition failed")
)
