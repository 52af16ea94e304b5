package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/dispatcher"
	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/application/service"
	"github.com/fieldsales/visitform/internal/domain/event"
	"github.com/fieldsales/visitform/internal/infrastructure/export"
	"github.com/fieldsales/visitform/internal/infrastructure/external/mail"
	"github.com/fieldsales/visitform/internal/infrastructure/metrics"
	"github.com/fieldsales/visitform/internal/infrastructure/persistence/repository"
	"github.com/fieldsales/visitform/internal/infrastructure/persistence/sqlite"
	"github.com/fieldsales/visitform/internal/infrastructure/storage"
	"github.com/fieldsales/visitform/internal/infrastructure/worker"
	"github.com/fieldsales/visitform/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB        *database.DB
	TxManager *sqlite.TxManager
}

// RepositoryBundle groups all repositories.
type RepositoryBundle struct {
	Salespeople port.SalespersonRepository
	Visits      port.VisitRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Salespeople service.SalespersonService
	Visits      service.VisitService
	Reports     service.ReportService
}

// ProvideDatabase opens the database and applies the embedded migrations.
func ProvideDatabase(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Run(ctx, database.Migrations()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:        db,
		TxManager: sqlite.NewTxManager(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &RepositoryBundle{
		Salespeople: repository.NewSalespersonRepository(db.DB, logger),
		Visits:      repository.NewVisitRepository(db.DB, logger),
	}, nil
}

// ProvideReportStore creates the file store for report workbooks.
func ProvideReportStore(cfg *ReportsConfig, logger *zap.Logger) (port.FileStore, error) {
	switch cfg.Store {
	case "s3":
		return storage.NewS3Store(cfg.S3, logger)
	case "local", "":
		return storage.NewLocalStore(cfg.Dir, logger), nil
	default:
		return nil, fmt.Errorf("unknown report store %q", cfg.Store)
	}
}

// ProvideMailGateway builds the composer and transport behind visit e-mails.
// The field client uses it too when it composes mail itself.
func ProvideMailGateway(cfg *MailConfig, reports *ReportsConfig, logger *zap.Logger) (*mail.Gateway, error) {
	composer, err := mail.NewComposer(mail.ComposerConfig{
		Recipients:    cfg.Recipients,
		SubjectPrefix: cfg.SubjectPrefix,
		Location:      reports.Location,
	})
	if err != nil {
		return nil, err
	}

	var sender port.MailSender
	switch cfg.Transport {
	case "smtp":
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.From,
			FromName: cfg.FromName,
		}, logger)
	case "outbox":
		from := cfg.From
		if from == "" {
			from = "visitas@localhost"
		}
		sender = mail.NewOutboxSender(storage.NewLocalStore(cfg.OutboxDir, logger), from, logger)
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}

	return mail.NewGateway(composer, sender), nil
}

// ProvideDispatcher creates the event dispatcher and subscribes the metric collectors.
func ProvideDispatcher(logger *zap.Logger) dispatcher.Dispatcher {
	d := dispatcher.NewDispatcher(logger)
	metrics.Subscribe(d)

	d.Subscribe(event.TypeVisitFailed, "log_failed_visit", func(ctx context.Context, evt *event.Event) error {
		logger.Error("Visit delivery failed",
			zap.String("visit_id", evt.SubjectID),
			zap.Any("payload", evt.Payload))
		return nil
	})

	return d
}

// ServiceDeps holds what ProvideServices needs.
type ServiceDeps struct {
	Repos       *RepositoryBundle
	TxManager   port.TransactionManager
	Delivery    port.SubmissionGateway
	ReportStore port.FileStore
	Reports     *ReportsConfig
	Dispatcher  dispatcher.Dispatcher
	Logger      *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Repos == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}

	svcLogger := ServiceLogger(deps.Logger)

	return &ServiceBundle{
		Salespeople: service.NewSalespersonService(deps.Repos.Salespeople, deps.TxManager, deps.Dispatcher, svcLogger),
		Visits:      service.NewVisitService(deps.Repos.Visits, deps.Delivery, deps.Dispatcher, nil, svcLogger),
		Reports: service.NewReportService(
			deps.Repos.Visits,
			export.Renderer{Location: deps.Reports.Location},
			deps.ReportStore,
			deps.Dispatcher,
			svcLogger,
		),
	}, nil
}

// ProvideWorkers creates the worker manager and registers the daily report worker.
func ProvideWorkers(cfg *ReportsConfig, reports service.ReportService, logger *zap.Logger) *worker.Manager {
	manager := worker.NewManager(logger)

	if cfg.Daily {
		manager.Register(worker.NewReportWorker(worker.ReportWorkerConfig{
			ExportHour:   cfg.ExportHour,
			PollInterval: cfg.PollInterval,
			Location:     cfg.Location,
		}, reports, logger))
	}

	return manager
}
