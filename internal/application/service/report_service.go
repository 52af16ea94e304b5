package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldsales/visitform/internal/application/dispatcher"
	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/event"
	"github.com/fieldsales/visitform/internal/domain/failure"
)

const reportKeyPrefix = "reports/"

// ReportService exports visits as workbooks
type ReportService interface {
	// Export renders visits created in [from, to)
	Export(ctx context.Context, from, to time.Time) ([]byte, error)
	// StoreDaily writes the workbook for the calendar day containing day.
	// It returns the stored location, or "" when the report already exists.
	StoreDaily(ctx context.Context, day time.Time) (string, error)
}

type reportServiceImpl struct {
	visits     port.VisitRepository
	renderer   port.ReportRenderer
	store      port.FileStore
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	visits port.VisitRepository,
	renderer port.ReportRenderer,
	store port.FileStore,
	d dispatcher.Dispatcher,
	logger Logger,
) ReportService {
	return &reportServiceImpl{
		visits:     visits,
		renderer:   renderer,
		store:      store,
		dispatcher: d,
		logger:     logger,
	}
}

func (s *reportServiceImpl) Export(ctx context.Context, from, to time.Time) ([]byte, error) {
	const op = "report.export"

	if !from.Before(to) {
		return nil, failure.Validation(op, "", failure.MsgInvalidDateRange)
	}

	visits, err := s.visits.ListBetween(ctx, from, to)
	if err != nil {
		return nil, failure.Wrap(err, failure.KindInternal, op, "", "")
	}

	data, err := s.renderer.RenderVisits(visits)
	if err != nil {
		return nil, failure.Wrap(err, failure.KindInternal, op, "", "")
	}

	s.logger.Info("Visits exported", "count", len(visits), "from", from.Format(time.DateOnly), "to", to.Format(time.DateOnly))
	return data, nil
}

func (s *reportServiceImpl) StoreDaily(ctx context.Context, day time.Time) (string, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)
	key := DailyReportKey(from)

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("check report %s: %w", key, err)
	}
	if exists {
		return "", nil
	}

	data, err := s.Export(ctx, from, to)
	if err != nil {
		return "", err
	}

	location, err := s.store.Put(ctx, key, data)
	if err != nil {
		s.logger.Error("Failed to store report", "key", key, "error", err)
		return "", fmt.Errorf("store report %s: %w", key, err)
	}

	s.logger.Info("Daily report stored", "location", location)
	publish(ctx, s.dispatcher, event.NewEvent(event.TypeReportExported, key, map[string]interface{}{
		"location": location,
	}))

	return location, nil
}

// DailyReportKey names the stored workbook for a day
func DailyReportKey(day time.Time) string {
	return reportKeyPrefix + "visitas-" + day.Format(time.DateOnly) + ".xlsx"
}
