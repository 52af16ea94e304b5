package workflow

import "context"

// StateMachine is an immutable transition table. It holds no current state:
// callers keep the state in their own snapshot and ask the machine for the next one.
type StateMachine[T any] interface {
	// Fire returns the state reached from the given state by the trigger.
	// Guards are evaluated in registration order against the subject.
	Fire(ctx context.Context, from State, trigger Trigger, subject T) (State, error)
}
