package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/application/workflow"
	"github.com/fieldsales/visitform/internal/config"
	"github.com/fieldsales/visitform/internal/container"
	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/infrastructure/external/backend"
	"github.com/fieldsales/visitform/internal/infrastructure/location"
	"github.com/fieldsales/visitform/internal/interfaces/cli"
	"github.com/fieldsales/visitform/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	verbose := flag.Bool("verbose", false, "Log workflow transitions")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the presenter; logs go to stderr unless a file is configured
	logCfg := utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     "console",
	}
	if logCfg.OutputPath == "stdout" {
		logCfg.OutputPath = "stderr"
	}
	if *verbose {
		logCfg.Level = "debug"
	} else if logCfg.Level == "info" {
		logCfg.Level = "warn"
	}

	logger, err := utils.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	client := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, logger)

	locator, err := newLocator(cfg, logger)
	if err != nil {
		return err
	}

	gateway, err := newGateway(cfg, client, logger)
	if err != nil {
		return err
	}

	var gate workflow.SessionGate
	form := workflow.NewFormEngine(locator, gateway,
		workflow.WithFormLogger(logger),
		workflow.WithIdentity(workflow.IdentityFunc(func() *entity.Salesperson {
			return gate.Salesperson()
		})),
		workflow.WithFormObserver(cli.FormProgress(os.Stdout)),
	)

	gate = workflow.NewSessionGate(client, form,
		workflow.WithSessionLogger(logger),
		workflow.WithSessionObserver(cli.SessionProgress(os.Stdout)),
	)

	return cli.NewPresenter(os.Stdin, os.Stdout, gate, form, logger).Run(ctx)
}

func newLocator(cfg *config.Config, logger *zap.Logger) (port.LocationProvider, error) {
	switch cfg.Location.Provider {
	case "http":
		return location.NewHTTPProvider(location.HTTPConfig{
			URL:               cfg.Location.URL,
			Timeout:           cfg.Location.Timeout,
			PermissionGranted: cfg.Location.PermissionGranted,
		}, logger), nil
	case "static":
		return location.NewStaticProvider(entity.Coordinates{
			Latitude:  cfg.Location.Latitude,
			Longitude: cfg.Location.Longitude,
		}, cfg.Location.PermissionGranted), nil
	default:
		return nil, fmt.Errorf("unknown location provider %q", cfg.Location.Provider)
	}
}

// newGateway selects the backend API or client-side mail composition
func newGateway(cfg *config.Config, client *backend.Client, logger *zap.Logger) (port.SubmissionGateway, error) {
	if cfg.Submission.Mode != "mail" {
		return client, nil
	}

	if err := cfg.ValidateMailDelivery(); err != nil {
		return nil, err
	}
	loc, err := cfg.Reports.Location()
	if err != nil {
		return nil, err
	}

	mailCfg := cfg.MailContainerConfig()
	return container.ProvideMailGateway(&mailCfg, &container.ReportsConfig{Location: loc}, logger)
}
