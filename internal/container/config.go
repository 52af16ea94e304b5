// Package container provides dependency wiring and lifecycle management
// for the visit backend.
package container

import (
	"fmt"
	"time"

	"github.com/fieldsales/visitform/internal/infrastructure/storage"
)

// Config holds all configuration for the Container.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Mail     MailConfig
	Reports  ReportsConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// VerifyAttempts per VerifyWindow and client IP
	VerifyAttempts int
	VerifyWindow   time.Duration

	MetricsEnabled bool
	MetricsPath    string
}

// MailConfig holds visit e-mail delivery settings.
type MailConfig struct {
	// Transport is "smtp" or "outbox"
	Transport string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	From         string
	FromName     string

	Recipients    []string
	SubjectPrefix string

	// OutboxDir receives .eml files when Transport is "outbox"
	OutboxDir string
}

// ReportsConfig holds report store and daily export settings.
type ReportsConfig struct {
	// Store is "local" or "s3"
	Store string
	Dir   string
	S3    storage.S3Config

	// Location defines report days and e-mail timestamps
	Location *time.Location

	// Daily enables the daily report worker
	Daily        bool
	ExportHour   int
	PollInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/visitform.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			VerifyAttempts: 10,
			VerifyWindow:   time.Minute,
			MetricsEnabled: true,
			MetricsPath:    "/metrics",
		},
		Mail: MailConfig{
			Transport:     "outbox",
			SMTPPort:      587,
			FromName:      "Registro de Visitas",
			SubjectPrefix: "Nuevo registro de cliente",
			OutboxDir:     "outbox",
		},
		Reports: ReportsConfig{
			Store:        "local",
			Dir:          "reports",
			Location:     time.Local,
			Daily:        true,
			ExportHour:   6,
			PollInterval: time.Minute,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if len(c.Mail.Recipients) == 0 {
		return fmt.Errorf("mail.recipients is required")
	}
	switch c.Mail.Transport {
	case "smtp":
		if c.Mail.SMTPHost == "" {
			return fmt.Errorf("mail.smtp_host is required")
		}
	case "outbox":
		if c.Mail.OutboxDir == "" {
			return fmt.Errorf("mail.outbox_dir is required")
		}
	default:
		return fmt.Errorf("unknown mail transport %q", c.Mail.Transport)
	}

	switch c.Reports.Store {
	case "local":
		if c.Reports.Dir == "" {
			return fmt.Errorf("reports.dir is required")
		}
	case "s3":
		if c.Reports.S3.Bucket == "" {
			return fmt.Errorf("reports.s3.bucket is required")
		}
	default:
		return fmt.Errorf("unknown report store %q", c.Reports.Store)
	}

	return nil
}
