package port

import (
	"context"

	"github.com/fieldsales/visitform/internal/domain/entity"
)

// Permission is the outcome of a location permission request
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// LocationProvider supplies the device position.
// GetCurrentPosition fails with a failure.KindLocationUnavailable error when no fix is available.
type LocationProvider interface {
	RequestPermission(ctx context.Context) (Permission, error)
	GetCurrentPosition(ctx context.Context) (entity.Coordinates, error)
}

// SubmissionGateway delivers a completed visit record.
// A rejection carries the server message in a failure.KindNetwork error.
type SubmissionGateway interface {
	Submit(ctx context.Context, submission entity.Submission) error
}

// Verifier checks a salesperson phone number against the backend.
// A rejected number yields a failure.KindUnauthorized error, a transport problem a failure.KindNetwork error.
type Verifier interface {
	Verify(ctx context.Context, phoneNumber string) (*entity.Salesperson, error)
}

// MailMessage is a composed visit e-mail
type MailMessage struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// MailSender delivers a composed e-mail
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) error
}

// ReportRenderer turns visits into a downloadable workbook
type ReportRenderer interface {
	RenderVisits(visits []*entity.Visit) ([]byte, error)
}
