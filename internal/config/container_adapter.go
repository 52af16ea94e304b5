package config

import (
	"github.com/fieldsales/visitform/internal/container"
	"github.com/fieldsales/visitform/internal/infrastructure/storage"
)

// ToContainerConfig converts the file-based configuration into the
// container's configuration structure.
func (c *Config) ToContainerConfig() (*container.Config, error) {
	loc, err := c.Reports.Location()
	if err != nil {
		return nil, err
	}

	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		Server: container.ServerConfig{
			Host:           c.Server.Host,
			Port:           c.Server.Port,
			ReadTimeout:    c.Server.ReadTimeout,
			WriteTimeout:   c.Server.WriteTimeout,
			VerifyAttempts: c.RateLimit.VerifyAttempts,
			VerifyWindow:   c.RateLimit.Window,
			MetricsEnabled: c.Metrics.Enabled,
			MetricsPath:    c.Metrics.Path,
		},
		Mail: c.MailContainerConfig(),
		Reports: container.ReportsConfig{
			Store: c.Reports.Store,
			Dir:   c.Reports.Dir,
			S3: storage.S3Config{
				Bucket:          c.Reports.S3.Bucket,
				Region:          c.Reports.S3.Region,
				Endpoint:        c.Reports.S3.Endpoint,
				AccessKeyID:     c.Reports.S3.AccessKeyID,
				SecretAccessKey: c.Reports.S3.SecretAccessKey,
				Prefix:          c.Reports.S3.Prefix,
				PublicURL:       c.Reports.S3.PublicURL,
			},
			Location:     loc,
			Daily:        c.Reports.Daily,
			ExportHour:   c.Reports.ExportHour,
			PollInterval: c.Reports.Interval,
		},
	}, nil
}

// MailContainerConfig returns the mail settings in container form
func (c *Config) MailContainerConfig() container.MailConfig {
	return container.MailConfig{
		Transport:     c.Mail.Transport,
		SMTPHost:      c.Mail.SMTPHost,
		SMTPPort:      c.Mail.SMTPPort,
		SMTPUsername:  c.Mail.SMTPUsername,
		SMTPPassword:  c.Mail.SMTPPassword,
		From:          c.Mail.From,
		FromName:      c.Mail.FromName,
		Recipients:    c.Mail.Recipients,
		SubjectPrefix: c.Mail.SubjectPrefix,
		OutboxDir:     c.Mail.OutboxDir,
	}
}
