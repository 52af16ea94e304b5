package event

// Type identifies the type of domain event
type Type string

const (
	TypeVisitRecorded       Type = "visit.recorded"
	TypeVisitSent           Type = "visit.sent"
	TypeVisitFailed         Type = "visit.failed"
	TypeSalespersonVerified Type = "salesperson.verified"
	TypeSalespersonRejected Type = "salesperson.rejected"
	TypeReportExported      Type = "report.exported"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeVisitRecorded,
		TypeVisitSent,
		TypeVisitFailed,
		TypeSalespersonVerified,
		TypeSalespersonRejected,
		TypeReportExported:
		return true
	default:
		return false
	}
}
