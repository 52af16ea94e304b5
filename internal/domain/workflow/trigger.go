package workflow

// Trigger represents a user action or collaborator response that can cause a transition
type Trigger string

// Form triggers
const (
	TriggerEdit             Trigger = "EDIT"
	TriggerRequestLocation  Trigger = "REQUEST_LOCATION"
	TriggerConfirmLocation  Trigger = "CONFIRM_LOCATION"
	TriggerLocationAcquired Trigger = "LOCATION_ACQUIRED"
	TriggerLocationFailed   Trigger = "LOCATION_FAILED"
	TriggerPermissionDenied Trigger = "PERMISSION_DENIED"
	TriggerRequestSubmit    Trigger = "REQUEST_SUBMIT"
	TriggerConfirmSend      Trigger = "CONFIRM_SEND"
	TriggerSubmitSucceeded  Trigger = "SUBMIT_SUCCEEDED"
	TriggerSubmitFailed     Trigger = "SUBMIT_FAILED"
	TriggerCancel           Trigger = "CANCEL"
	TriggerDismiss          Trigger = "DISMISS"
	TriggerReset            Trigger = "RESET"
)

// Session triggers
const (
	TriggerVerify        Trigger = "VERIFY"
	TriggerVerified      Trigger = "VERIFIED"
	TriggerRejected      Trigger = "REJECTED"
	TriggerRequestLogout Trigger = "REQUEST_LOGOUT"
	TriggerConfirmLogout Trigger = "CONFIRM_LOGOUT"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
