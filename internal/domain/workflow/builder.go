package workflow

import (
	"context"
	"fmt"
)

// GuardFunc evaluates whether a transition is allowed for the given subject
type GuardFunc[T any] func(ctx context.Context, subject T) bool

// StateMachineBuilder builds a configured state machine
type StateMachineBuilder[T any] interface {
	// Configure returns a state configuration for the given state
	Configure(state State) StateConfiguration[T]

	// Build freezes the configured transitions into a state machine
	Build() StateMachine[T]
}

// StateConfiguration configures transitions for a specific state
type StateConfiguration[T any] interface {
	// Permit allows a trigger to transition to the target state
	Permit(trigger Trigger, toState State) StateConfiguration[T]

	// PermitIf allows a trigger to transition to the target state if the guard passes
	PermitIf(trigger Trigger, toState State, guard GuardFunc[T]) StateConfiguration[T]
}

type transition[T any] struct {
	toState State
	guard   GuardFunc[T]
}

type stateConfig[T any] struct {
	fromState   State
	transitions map[Trigger][]transition[T]
}

type stateMachineBuilder[T any] struct {
	configurations map[State]*stateConfig[T]
}

type stateMachine[T any] struct {
	configurations map[State]*stateConfig[T]
}

// NewBuilder creates a new state machine builder
func NewBuilder[T any]() StateMachineBuilder[T] {
	return &stateMachineBuilder[T]{
		configurations: make(map[State]*stateConfig[T]),
	}
}

// Configure returns a state configuration for the given state
func (b *stateMachineBuilder[T]) Configure(state State) StateConfiguration[T] {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}

	config, exists := b.configurations[state]
	if !exists {
		config = &stateConfig[T]{
			fromState:   state,
			transitions: make(map[Trigger][]transition[T]),
		}
		b.configurations[state] = config
	}

	return config
}

// Build freezes the configured transitions into a state machine.
// Later changes to the builder do not affect machines already built.
func (b *stateMachineBuilder[T]) Build() StateMachine[T] {
	configsCopy := make(map[State]*stateConfig[T], len(b.configurations))
	for state, config := range b.configurations {
		transitionsCopy := make(map[Trigger][]transition[T], len(config.transitions))
		for trigger, transitions := range config.transitions {
			transitionsCopy[trigger] = append([]transition[T]{}, transitions...)
		}
		configsCopy[state] = &stateConfig[T]{
			fromState:   state,
			transitions: transitionsCopy,
		}
	}

	return &stateMachine[T]{configurations: configsCopy}
}

// Permit allows a trigger to transition to the target state
func (c *stateConfig[T]) Permit(trigger Trigger, toState State) StateConfiguration[T] {
	return c.PermitIf(trigger, toState, nil)
}

// PermitIf allows a trigger to transition to the target state if the guard passes
func (c *stateConfig[T]) PermitIf(trigger Trigger, toState State, guard GuardFunc[T]) StateConfiguration[T] {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}

	c.transitions[trigger] = append(c.transitions[trigger], transition[T]{
		toState: toState,
		guard:   guard,
	})

	return c
}

// Fire returns the state reached from the given state by the trigger
func (m *stateMachine[T]) Fire(ctx context.Context, from State, trigger Trigger, subject T) (State, error) {
	if !from.IsValid() {
		return from, fmt.Errorf("%w: %s", ErrInvalidState, from)
	}

	config, exists := m.configurations[from]
	if !exists {
		return from, fmt.Errorf("%w: cannot fire trigger %s from state %s (no configuration)", ErrInvalidTransition, trigger, from)
	}

	transitions := config.transitions[trigger]
	if len(transitions) == 0 {
		return from, fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, from)
	}

	for _, t := range transitions {
		if t.guard == nil || t.guard(ctx, subject) {
			return t.toState, nil
		}
	}

	return from, fmt.Errorf("%w: trigger %s from state %s", ErrGuardFailed, trigger, from)
}
