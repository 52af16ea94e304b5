package workflow

import (
	"context"

	"github.com/fieldsales/visitform/internal/domain/entity"
)

// FormEngine drives the visit form through its workflow states.
// Every method returns the snapshot reached after the call. User-facing failures
// (incomplete data, location errors, rejected submissions) are reported through
// FormState.Result, not through the error return.
type FormEngine interface {
	// State returns the current snapshot
	State() FormState

	// Start requests location permission once
	Start(ctx context.Context) (FormState, error)

	// SetClientNumber stores the digits of text as the client number
	SetClientNumber(text string) (FormState, error)

	// SetClientName stores the letters and spaces of text as the client name
	SetClientName(text string) (FormState, error)

	// RequestLocation opens the presence confirmation dialog
	RequestLocation(ctx context.Context) (FormState, error)

	// ConfirmLocation fetches the position and blocks until the provider answers
	ConfirmLocation(ctx context.Context) (FormState, error)

	// RequestSubmit opens the send confirmation or reports incomplete data
	RequestSubmit(ctx context.Context) (FormState, error)

	// ConfirmSend submits the record and blocks until the gateway answers
	ConfirmSend(ctx context.Context) (FormState, error)

	// Cancel closes a confirmation dialog without side effects
	Cancel() (FormState, error)

	// Dismiss closes the result dialog; a success result clears the record
	Dismiss() (FormState, error)

	// Reset clears the record and returns to Idle
	Reset() (FormState, error)
}

// SessionGate verifies the salesperson before the form is reachable
type SessionGate interface {
	// State returns the current snapshot
	State() SessionState

	// SetPhoneNumber stores the digits of text, at most ten
	SetPhoneNumber(text string) (SessionState, error)

	// Verify checks the phone number with the verifier and blocks until it answers
	Verify(ctx context.Context) (SessionState, error)

	// Dismiss closes the error dialog
	Dismiss() (SessionState, error)

	// RequestLogout opens the logout confirmation dialog
	RequestLogout() (SessionState, error)

	// ConfirmLogout clears the session and the form
	ConfirmLogout() (SessionState, error)

	// CancelLogout closes the logout confirmation dialog
	CancelLogout() (SessionState, error)

	// Salesperson returns the verified identity, or nil
	Salesperson() *entity.Salesperson
}

// IdentitySource supplies the salesperson attached to submissions
type IdentitySource interface {
	Salesperson() *entity.Salesperson
}
