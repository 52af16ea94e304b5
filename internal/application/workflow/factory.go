package workflow

import (
	"context"

	domainwf "github.com/fieldsales/visitform/internal/domain/workflow"
	"github.com/fieldsales/visitform/pkg/utils"
)

func detailsFilled(_ context.Context, s FormState) bool {
	return s.Record.DetailsFilled()
}

func readyToSubmit(_ context.Context, s FormState) bool {
	return s.Record.Complete()
}

func phoneComplete(_ context.Context, s SessionState) bool {
	return utils.IsPhoneNumber(s.PhoneNumber)
}

// BuildFormStateMachine creates the transition table of the visit form
func BuildFormStateMachine() domainwf.StateMachine[FormState] {
	builder := domainwf.NewBuilder[FormState]()

	// IDLE: fields are editable; dismissing an already closed dialog is a no-op
	builder.Configure(domainwf.StateIdle).
		Permit(domainwf.TriggerEdit, domainwf.StateIdle).
		Permit(domainwf.TriggerDismiss, domainwf.StateIdle).
		Permit(domainwf.TriggerReset, domainwf.StateIdle).
		PermitIf(domainwf.TriggerRequestLocation, domainwf.StateAwaitingLocationConfirmation, detailsFilled).
		PermitIf(domainwf.TriggerRequestSubmit, domainwf.StateAwaitingSendConfirmation, readyToSubmit).
		Permit(domainwf.TriggerRequestSubmit, domainwf.StateShowingResult).
		Permit(domainwf.TriggerPermissionDenied, domainwf.StateShowingResult)

	builder.Configure(domainwf.StateAwaitingLocationConfirmation).
		Permit(domainwf.TriggerConfirmLocation, domainwf.StateLocating).
		Permit(domainwf.TriggerCancel, domainwf.StateIdle).
		Permit(domainwf.TriggerReset, domainwf.StateIdle)

	// LOCATING cannot be cancelled, only resolved
	builder.Configure(domainwf.StateLocating).
		Permit(domainwf.TriggerLocationAcquired, domainwf.StateIdle).
		Permit(domainwf.TriggerLocationFailed, domainwf.StateShowingResult).
		Permit(domainwf.TriggerPermissionDenied, domainwf.StateShowingResult)

	builder.Configure(domainwf.StateAwaitingSendConfirmation).
		PermitIf(domainwf.TriggerConfirmSend, domainwf.StateSubmitting, readyToSubmit).
		Permit(domainwf.TriggerCancel, domainwf.StateIdle).
		Permit(domainwf.TriggerReset, domainwf.StateIdle)

	// SUBMITTING cannot be cancelled, only resolved
	builder.Configure(domainwf.StateSubmitting).
		Permit(domainwf.TriggerSubmitSucceeded, domainwf.StateShowingResult).
		Permit(domainwf.TriggerSubmitFailed, domainwf.StateShowingResult)

	builder.Configure(domainwf.StateShowingResult).
		Permit(domainwf.TriggerDismiss, domainwf.StateIdle).
		Permit(domainwf.TriggerReset, domainwf.StateIdle)

	return builder.Build()
}

// BuildSessionStateMachine creates the transition table of the salesperson session
func BuildSessionStateMachine() domainwf.StateMachine[SessionState] {
	builder := domainwf.NewBuilder[SessionState]()

	builder.Configure(domainwf.StateSignedOut).
		Permit(domainwf.TriggerEdit, domainwf.StateSignedOut).
		Permit(domainwf.TriggerDismiss, domainwf.StateSignedOut).
		PermitIf(domainwf.TriggerVerify, domainwf.StateVerifying, phoneComplete).
		Permit(domainwf.TriggerVerify, domainwf.StateShowingResult)

	builder.Configure(domainwf.StateVerifying).
		Permit(domainwf.TriggerVerified, domainwf.StateSignedIn).
		Permit(domainwf.TriggerRejected, domainwf.StateShowingResult)

	builder.Configure(domainwf.StateShowingResult).
		Permit(domainwf.TriggerDismiss, domainwf.StateSignedOut)

	builder.Configure(domainwf.StateSignedIn).
		Permit(domainwf.TriggerRequestLogout, domainwf.StateAwaitingLogoutConfirmation)

	builder.Configure(domainwf.StateAwaitingLogoutConfirmation).
		Permit(domainwf.TriggerConfirmLogout, domainwf.StateSignedOut).
		Permit(domainwf.TriggerCancel, domainwf.StateSignedIn)

	return builder.Build()
}
