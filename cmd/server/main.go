package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/service"
	"github.com/fieldsales/visitform/internal/config"
	"github.com/fieldsales/visitform/internal/container"
	"github.com/fieldsales/visitform/internal/infrastructure/export"
	"github.com/fieldsales/visitform/pkg/utils"
)

const usage = `Usage: server [-config path] [command]

Commands:
  serve                      run the HTTP API (default)
  import-roster <file.xlsx>  upsert salespeople from the first sheet
  export-roster <file.xlsx>  write the salesperson roster
`

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
		Service:    "visitform",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := flag.Args()
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "serve":
		err = serve(ctx, cfg, logger)
	case "import-roster", "export-roster":
		if len(args) != 2 {
			flag.Usage()
			os.Exit(2)
		}
		err = roster(ctx, cfg, logger, command, args[1])
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("Command failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.ValidateMailDelivery(); err != nil {
		return err
	}

	containerCfg, err := cfg.ToContainerConfig()
	if err != nil {
		return err
	}

	c, err := container.NewContainer(containerCfg, logger)
	if err != nil {
		return err
	}

	if err := c.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("Container close failed", zap.Error(err))
		}
	}()

	logger.Info("Starting visit backend",
		zap.String("address", c.Server().Address()),
		zap.String("mail_transport", cfg.Mail.Transport),
		zap.String("report_store", cfg.Reports.Store))

	// Serve returns after SIGINT/SIGTERM with a graceful shutdown
	if err := c.Serve(ctx); err != nil {
		return err
	}

	logger.Info("Server exited successfully")
	return nil
}

// roster imports or exports the salesperson roster without starting the API
func roster(ctx context.Context, cfg *config.Config, logger *zap.Logger, command, path string) error {
	containerCfg, err := cfg.ToContainerConfig()
	if err != nil {
		return err
	}

	db, err := container.ProvideDatabase(ctx, &containerCfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.DB.Close()

	repos, err := container.ProvideRepositories(db.DB, logger)
	if err != nil {
		return err
	}

	svc := service.NewSalespersonService(repos.Salespeople, db.TxManager, nil, container.ServiceLogger(logger))

	if command == "export-roster" {
		people, err := svc.List(ctx)
		if err != nil {
			return err
		}
		content, err := export.RosterWorkbook(people)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			return fmt.Errorf("write roster: %w", err)
		}
		fmt.Printf("Exported %d salespeople to %s\n", len(people), path)
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer file.Close()

	people, rowErrors, err := export.ParseRoster(file)
	if err != nil {
		return err
	}
	for _, rowErr := range rowErrors {
		fmt.Fprintf(os.Stderr, "skipped %s\n", rowErr.Error())
	}

	count, err := svc.ImportRoster(ctx, people)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d salespeople (%d rows skipped)\n", count, len(rowErrors))
	return nil
}
