package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/event"
	"github.com/fieldsales/visitform/internal/domain/failure"
)

func validSubmission() entity.Submission {
	return entity.Submission{
		ClientNumber:     " 12345 ",
		ClientName:       "abarrotes  PEÑA",
		Latitude:         32.5333,
		Longitude:        -117.0167,
		SalespersonName:  "Laura Gómez",
		SalespersonPhone: "664-123-4567",
	}
}

func fixedClock() Clock {
	t := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestValidateSubmission(t *testing.T) {
	sub, err := ValidateSubmission(validSubmission())
	require.NoError(t, err)
	assert.Equal(t, "12345", sub.ClientNumber)
	assert.Equal(t, "Abarrotes  Peña", sub.ClientName)
	assert.Equal(t, "6641234567", sub.SalespersonPhone)

	tests := []struct {
		name   string
		mutate func(*entity.Submission)
		field  string
	}{
		{"missing number", func(s *entity.Submission) { s.ClientNumber = "  " }, "client_number"},
		{"number of control characters", func(s *entity.Submission) { s.ClientNumber = "\x00\x1f" }, "client_number"},
		{"missing name", func(s *entity.Submission) { s.ClientName = "" }, "client_name"},
		{"missing salesperson", func(s *entity.Submission) { s.SalespersonName = "" }, "salesperson_name"},
		{"short phone", func(s *entity.Submission) { s.SalespersonPhone = "664" }, "salesperson_phone"},
		{"latitude out of range", func(s *entity.Submission) { s.Latitude = 91 }, "latitude"},
		{"longitude out of range", func(s *entity.Submission) { s.Longitude = -181 }, "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(&s)
			_, err := ValidateSubmission(s)
			require.Error(t, err)
			assert.Equal(t, failure.KindValidation, failure.KindOf(err))
			assert.Contains(t, failure.MessageOf(err, ""), tt.field)
		})
	}
}

func TestValidateSubmission_StripsControlCharacters(t *testing.T) {
	s := validSubmission()
	s.ClientNumber = "123\x0045"
	s.ClientName = "\x00tienda sol\x7f"
	s.SalespersonName = "Laura\x1b Gómez"

	sub, err := ValidateSubmission(s)
	require.NoError(t, err)
	assert.Equal(t, "12345", sub.ClientNumber)
	assert.Equal(t, "Tienda Sol", sub.ClientName)
	assert.Equal(t, "Laura Gómez", sub.SalespersonName)
}

func TestVisitService_RegisterDelivered(t *testing.T) {
	repo := &mockVisitRepo{}
	gw := &mockGateway{}
	d := &recordingDispatcher{}
	svc := NewVisitService(repo, gw, d, fixedClock(), nopLogger{})

	visit, err := svc.Register(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.NotEmpty(t, visit.ID)
	assert.Equal(t, entity.VisitStatusSent, visit.Status)
	require.NotNil(t, visit.SentAt)

	require.Len(t, repo.created, 1)
	assert.Equal(t, entity.VisitStatusPending, repo.created[0].Status)
	assert.Equal(t, "Abarrotes  Peña", repo.created[0].ClientName)
	assert.Contains(t, repo.sent, visit.ID)

	require.Len(t, gw.submitted, 1)
	assert.Equal(t, "Abarrotes  Peña", gw.submitted[0].ClientName)
	assert.Equal(t, "6641234567", gw.submitted[0].SalespersonPhone)

	assert.Equal(t, []event.Type{event.TypeVisitRecorded, event.TypeVisitSent}, d.types())
}

func TestVisitService_RegisterDeliveryFailure(t *testing.T) {
	repo := &mockVisitRepo{}
	gw := &mockGateway{submitFunc: func(ctx context.Context, sub entity.Submission) error {
		return errors.New("smtp: connection refused")
	}}
	d := &recordingDispatcher{}
	svc := NewVisitService(repo, gw, d, fixedClock(), nopLogger{})

	visit, err := svc.Register(context.Background(), validSubmission())
	require.Error(t, err)
	assert.Equal(t, failure.KindNetwork, failure.KindOf(err))
	assert.Equal(t, failure.MsgDeliveryFailed, failure.MessageOf(err, ""))

	require.NotNil(t, visit)
	assert.Equal(t, entity.VisitStatusFailed, visit.Status)
	assert.Contains(t, repo.failed[visit.ID], "connection refused")
	assert.Empty(t, repo.sent)
	assert.Equal(t, []event.Type{event.TypeVisitRecorded, event.TypeVisitFailed}, d.types())
}

func TestVisitService_RegisterInvalid(t *testing.T) {
	repo := &mockVisitRepo{}
	gw := &mockGateway{}
	svc := NewVisitService(repo, gw, nil, fixedClock(), nopLogger{})

	sub := validSubmission()
	sub.ClientName = ""
	_, err := svc.Register(context.Background(), sub)

	assert.True(t, failure.Is(err, failure.KindValidation))
	assert.Empty(t, repo.created)
	assert.Empty(t, gw.submitted)
}

func TestVisitService_RegisterStoreFailure(t *testing.T) {
	repo := &mockVisitRepo{createFunc: func(ctx context.Context, v *entity.Visit) error {
		return errors.New("disk full")
	}}
	gw := &mockGateway{}
	svc := NewVisitService(repo, gw, nil, fixedClock(), nopLogger{})

	_, err := svc.Register(context.Background(), validSubmission())
	assert.Equal(t, failure.KindInternal, failure.KindOf(err))
	assert.Empty(t, gw.submitted)
}
