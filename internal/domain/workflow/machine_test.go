package workflow

import (
	"context"
	"errors"
	"testing"
)

type counter struct {
	n int
}

func TestState_IsBusy(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateIdle, false},
		{StateAwaitingLocationConfirmation, false},
		{StateLocating, true},
		{StateAwaitingSendConfirmation, false},
		{StateSubmitting, true},
		{StateShowingResult, false},
		{StateSignedOut, false},
		{StateVerifying, true},
		{StateSignedIn, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsBusy(); got != tt.expected {
				t.Errorf("State.IsBusy() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsDialog(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateIdle, false},
		{StateAwaitingLocationConfirmation, true},
		{StateLocating, false},
		{StateAwaitingSendConfirmation, true},
		{StateShowingResult, true},
		{StateAwaitingLogoutConfirmation, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsDialog(); got != tt.expected {
				t.Errorf("State.IsDialog() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"form state", StateIdle, true},
		{"session state", StateSignedIn, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTrigger_String(t *testing.T) {
	if got := TriggerConfirmSend.String(); got != "CONFIRM_SEND" {
		t.Errorf("Trigger.String() = %v, want %v", got, "CONFIRM_SEND")
	}
}

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder[counter]()

	config := builder.Configure(StateIdle)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}

	if config2 := builder.Configure(StateIdle); config != config2 {
		t.Error("Configure() should return same config for same state")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder[counter]()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("INVALID"))
}

func TestStateConfiguration_PermitPanicsOnInvalidTarget(t *testing.T) {
	builder := NewBuilder[counter]()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on invalid target state")
		}
	}()

	builder.Configure(StateIdle).Permit(TriggerEdit, State("NOWHERE"))
}

func TestStateConfiguration_Permit(t *testing.T) {
	builder := NewBuilder[counter]()
	builder.Configure(StateIdle).
		Permit(TriggerRequestLocation, StateAwaitingLocationConfirmation)

	machine := builder.Build()

	next, err := machine.Fire(context.Background(), StateIdle, TriggerRequestLocation, counter{})
	if err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if next != StateAwaitingLocationConfirmation {
		t.Errorf("Fire() = %v, want %v", next, StateAwaitingLocationConfirmation)
	}
}

func TestStateConfiguration_PermitIf_GuardFails(t *testing.T) {
	builder := NewBuilder[counter]()
	builder.Configure(StateIdle).
		PermitIf(TriggerRequestLocation, StateAwaitingLocationConfirmation, func(ctx context.Context, c counter) bool {
			return c.n > 0
		})

	machine := builder.Build()

	next, err := machine.Fire(context.Background(), StateIdle, TriggerRequestLocation, counter{})
	if !errors.Is(err, ErrGuardFailed) {
		t.Fatalf("Fire() error = %v, want %v", err, ErrGuardFailed)
	}
	if next != StateIdle {
		t.Errorf("Fire() should return the source state on failure, got %v", next)
	}
}

func TestStateConfiguration_PermitIf_OrderedFallback(t *testing.T) {
	builder := NewBuilder[counter]()
	builder.Configure(StateIdle).
		PermitIf(TriggerRequestSubmit, StateAwaitingSendConfirmation, func(ctx context.Context, c counter) bool {
			return c.n > 0
		}).
		Permit(TriggerRequestSubmit, StateShowingResult)

	machine := builder.Build()

	tests := []struct {
		name     string
		subject  counter
		expected State
	}{
		{"first guard passes", counter{n: 1}, StateAwaitingSendConfirmation},
		{"falls through to unguarded", counter{n: 0}, StateShowingResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := machine.Fire(context.Background(), StateIdle, TriggerRequestSubmit, tt.subject)
			if err != nil {
				t.Fatalf("Fire() failed: %v", err)
			}
			if next != tt.expected {
				t.Errorf("Fire() = %v, want %v", next, tt.expected)
			}
		})
	}
}

func TestStateMachine_InvalidTransition(t *testing.T) {
	builder := NewBuilder[counter]()
	builder.Configure(StateIdle).Permit(TriggerEdit, StateIdle)
	machine := builder.Build()

	tests := []struct {
		name    string
		from    State
		trigger Trigger
	}{
		{"unconfigured state", StateSubmitting, TriggerConfirmSend},
		{"unconfigured trigger", StateIdle, TriggerConfirmSend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := machine.Fire(context.Background(), tt.from, tt.trigger, counter{})
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Fire() error = %v, want %v", err, ErrInvalidTransition)
			}
		})
	}
}

func TestStateMachine_BuildIsolatesConfiguration(t *testing.T) {
	builder := NewBuilder[counter]()
	builder.Configure(StateIdle).Permit(TriggerEdit, StateIdle)
	machine := builder.Build()

	builder.Configure(StateIdle).Permit(TriggerRequestLocation, StateAwaitingLocationConfirmation)

	if _, err := machine.Fire(context.Background(), StateIdle, TriggerRequestLocation, counter{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("machine should not see transitions added after Build(), got %v", err)
	}
}

func TestStateMachine_FireFromUnknownState(t *testing.T) {
	builder := NewBuilder[counter]()
	builder.Configure(StateIdle).Permit(TriggerEdit, StateIdle)
	machine := builder.Build()

	from := State("GHOST")
	next, err := machine.Fire(context.Background(), from, TriggerEdit, counter{})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Fire() error = %v, want %v", err, ErrInvalidState)
	}
	if next != from {
		t.Errorf("Fire() = %v, want unchanged %v", next, from)
	}
}
