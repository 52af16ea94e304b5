package workflow

// State represents a phase of the visit form or of the salesperson session
type State string

// Form states
const (
	StateIdle                         State = "IDLE"
	StateAwaitingLocationConfirmation State = "AWAITING_LOCATION_CONFIRMATION"
	StateLocating                     State = "LOCATING"
	StateAwaitingSendConfirmation     State = "AWAITING_SEND_CONFIRMATION"
	StateSubmitting                   State = "SUBMITTING"
	StateShowingResult                State = "SHOWING_RESULT"
)

// Session states
const (
	StateSignedOut                  State = "SIGNED_OUT"
	StateVerifying                  State = "VERIFYING"
	StateSignedIn                   State = "SIGNED_IN"
	StateAwaitingLogoutConfirmation State = "AWAITING_LOGOUT_CONFIRMATION"
)

var validStates = map[State]bool{
	StateIdle:                         true,
	StateAwaitingLocationConfirmation: true,
	StateLocating:                     true,
	StateAwaitingSendConfirmation:     true,
	StateSubmitting:                   true,
	StateShowingResult:                true,
	StateSignedOut:                    true,
	StateVerifying:                    true,
	StateSignedIn:                     true,
	StateAwaitingLogoutConfirmation:   true,
}

// busyStates wait on a collaborator and cannot be cancelled by the user
var busyStates = map[State]bool{
	StateLocating:   true,
	StateSubmitting: true,
	StateVerifying:  true,
}

var dialogStates = map[State]bool{
	StateAwaitingLocationConfirmation: true,
	StateAwaitingSendConfirmation:     true,
	StateShowingResult:                true,
	StateAwaitingLogoutConfirmation:   true,
}

// IsBusy returns true while an external call is in flight
func (s State) IsBusy() bool {
	return busyStates[s]
}

// IsDialog returns true if the state is presented as a modal dialog
func (s State) IsDialog() bool {
	return dialogStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known state
func (s State) IsValid() bool {
	return validStates[s]
}
