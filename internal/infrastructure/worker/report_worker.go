package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/service"
	"github.com/fieldsales/visitform/internal/infrastructure/metrics"
)

const reportJob = "daily_report"

// ReportWorkerConfig holds configuration for the daily report worker
type ReportWorkerConfig struct {
	// ExportHour is the local hour after which yesterday's report is written
	ExportHour   int
	PollInterval time.Duration
	Location     *time.Location
}

// DefaultReportWorkerConfig returns default configuration
func DefaultReportWorkerConfig() ReportWorkerConfig {
	return ReportWorkerConfig{
		ExportHour:   6,
		PollInterval: time.Minute,
		Location:     time.Local,
	}
}

// ReportWorker writes the previous day's visits workbook to the report store once a day
type ReportWorker struct {
	config  ReportWorkerConfig
	reports service.ReportService
	now     func() time.Time
	logger  *zap.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
	lastDay   string
}

// NewReportWorker creates a new daily report worker
func NewReportWorker(config ReportWorkerConfig, reports service.ReportService, logger *zap.Logger) *ReportWorker {
	if config.PollInterval <= 0 {
		config.PollInterval = time.Minute
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	return &ReportWorker{
		config:  config,
		reports: reports,
		now:     time.Now,
		logger:  logger,
	}
}

// Name returns the worker name
func (w *ReportWorker) Name() string {
	return "ReportWorker"
}

// Start begins the polling loop
func (w *ReportWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("report worker already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.isRunning = true

	w.logger.Info("ReportWorker started",
		zap.Int("export_hour", w.config.ExportHour),
		zap.Duration("poll_interval", w.config.PollInterval))

	go w.loop(runCtx, w.done)
	return nil
}

// Stop terminates the loop and waits for a running export to finish
func (w *ReportWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done

	w.logger.Info("ReportWorker stopped")
	return nil
}

func (w *ReportWorker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick exports yesterday's report once the export hour has passed
func (w *ReportWorker) tick(ctx context.Context) {
	now := w.now().In(w.config.Location)
	if now.Hour() < w.config.ExportHour {
		return
	}

	yesterday := now.AddDate(0, 0, -1)
	day := yesterday.Format(time.DateOnly)
	if day == w.lastDay {
		return
	}

	start := time.Now()
	location, err := w.reports.StoreDaily(ctx, yesterday)
	metrics.JobDuration.WithLabelValues(reportJob).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.JobsTotal.WithLabelValues(reportJob, "failed").Inc()
		w.logger.Error("Daily report failed", zap.String("day", day), zap.Error(err))
		return
	}

	metrics.JobsTotal.WithLabelValues(reportJob, "success").Inc()
	w.lastDay = day
	if location != "" {
		w.logger.Info("Daily report written", zap.String("day", day), zap.String("location", location))
	}
}
