package entity

// Status constants for Visit
const (
	VisitStatusPending = "PENDING"
	VisitStatusSent    = "SENT"
	VisitStatusFailed  = "FAILED"
)
