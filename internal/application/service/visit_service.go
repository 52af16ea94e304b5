package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldsales/visitform/internal/application/dispatcher"
	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/event"
	"github.com/fieldsales/visitform/internal/domain/failure"
	"github.com/fieldsales/visitform/pkg/utils"
)

// VisitService records visits and delivers the visit e-mail
type VisitService interface {
	Register(ctx context.Context, submission entity.Submission) (*entity.Visit, error)
}

type visitServiceImpl struct {
	repo       port.VisitRepository
	delivery   port.SubmissionGateway
	dispatcher dispatcher.Dispatcher
	now        Clock
	logger     Logger
}

// NewVisitService creates a new VisitService. delivery sends the composed e-mail.
func NewVisitService(
	repo port.VisitRepository,
	delivery port.SubmissionGateway,
	d dispatcher.Dispatcher,
	now Clock,
	logger Logger,
) VisitService {
	if now == nil {
		now = time.Now
	}
	return &visitServiceImpl{
		repo:       repo,
		delivery:   delivery,
		dispatcher: d,
		now:        now,
		logger:     logger,
	}
}

// ValidateSubmission normalizes the submission and checks every field
func ValidateSubmission(sub entity.Submission) (entity.Submission, error) {
	const op = "visit.validate"

	sub.ClientNumber = strings.TrimSpace(utils.SanitizeString(sub.ClientNumber))
	sub.ClientName = utils.TitleCase(strings.TrimSpace(utils.SanitizeString(sub.ClientName)))
	sub.SalespersonName = strings.TrimSpace(utils.SanitizeString(sub.SalespersonName))
	sub.SalespersonPhone = utils.NormalizeDigits(sub.SalespersonPhone)

	var problems []string
	if sub.ClientNumber == "" {
		problems = append(problems, "client_number")
	}
	if sub.ClientName == "" {
		problems = append(problems, "client_name")
	}
	if sub.SalespersonName == "" {
		problems = append(problems, "salesperson_name")
	}
	if !utils.IsPhoneNumber(sub.SalespersonPhone) {
		problems = append(problems, "salesperson_phone")
	}
	if sub.Latitude < -90 || sub.Latitude > 90 {
		problems = append(problems, "latitude")
	}
	if sub.Longitude < -180 || sub.Longitude > 180 {
		problems = append(problems, "longitude")
	}

	if len(problems) > 0 {
		return sub, failure.Validation(op, failure.TitleIncompleteData,
			fmt.Sprintf(failure.MsgInvalidSubmissionFmt, strings.Join(problems, ", ")))
	}
	return sub, nil
}

// Register validates, stores and delivers a visit. The visit is kept even
// when delivery fails so it can be reported.
func (s *visitServiceImpl) Register(ctx context.Context, submission entity.Submission) (*entity.Visit, error) {
	const op = "visit.register"

	sub, err := ValidateSubmission(submission)
	if err != nil {
		return nil, err
	}

	visit := &entity.Visit{
		ID:               uuid.NewString(),
		ClientNumber:     sub.ClientNumber,
		ClientName:       sub.ClientName,
		Latitude:         sub.Latitude,
		Longitude:        sub.Longitude,
		SalespersonName:  sub.SalespersonName,
		SalespersonPhone: sub.SalespersonPhone,
		Status:           entity.VisitStatusPending,
		CreatedAt:        s.now(),
	}

	if err := s.repo.Create(ctx, visit); err != nil {
		s.logger.Error("Failed to store visit", "error", err)
		return nil, failure.Wrap(err, failure.KindInternal, op, failure.TitleSendError, "")
	}
	publish(ctx, s.dispatcher, visitEvent(event.TypeVisitRecorded, visit))

	if err := s.delivery.Submit(ctx, sub); err != nil {
		s.logger.Error("Visit delivery failed", "visit_id", visit.ID, "error", err)

		visit.Status = entity.VisitStatusFailed
		visit.ErrorMessage = err.Error()
		if markErr := s.repo.MarkFailed(ctx, visit.ID, visit.ErrorMessage); markErr != nil {
			s.logger.Error("Failed to mark visit failed", "visit_id", visit.ID, "error", markErr)
		}
		publish(ctx, s.dispatcher, visitEvent(event.TypeVisitFailed, visit).WithPayload("error", visit.ErrorMessage))

		return visit, failure.Network(err, op, failure.TitleSendError, failure.MsgDeliveryFailed)
	}

	sentAt := s.now()
	visit.Status = entity.VisitStatusSent
	visit.SentAt = &sentAt
	if err := s.repo.MarkSent(ctx, visit.ID, sentAt); err != nil {
		s.logger.Error("Failed to mark visit sent", "visit_id", visit.ID, "error", err)
	}
	publish(ctx, s.dispatcher, visitEvent(event.TypeVisitSent, visit))

	s.logger.Info("Visit registered", "visit_id", visit.ID, "client_number", visit.ClientNumber)
	return visit, nil
}

func visitEvent(t event.Type, v *entity.Visit) *event.Event {
	return event.NewEvent(t, v.ID, map[string]interface{}{
		"client_number": v.ClientNumber,
		"latitude":      v.Latitude,
		"longitude":     v.Longitude,
	})
}
