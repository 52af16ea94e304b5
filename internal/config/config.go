package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/fieldsales/visitform/pkg/utils"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "VISITFORM"

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Location   LocationConfig   `mapstructure:"location"`
	Submission SubmissionConfig `mapstructure:"submission"`
	Mail       MailConfig       `mapstructure:"mail"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Reports    ReportsConfig    `mapstructure:"reports"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// BackendConfig locates the visit backend used by the field client
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LocationConfig selects the field client's position source
type LocationConfig struct {
	Provider          string        `mapstructure:"provider"` // static or http
	Latitude          float64       `mapstructure:"latitude"`
	Longitude         float64       `mapstructure:"longitude"`
	URL               string        `mapstructure:"url"`
	PermissionGranted bool          `mapstructure:"permission_granted"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// SubmissionConfig selects how the field client delivers a record
type SubmissionConfig struct {
	Mode string `mapstructure:"mode"` // http or mail
}

// MailConfig holds visit e-mail settings
type MailConfig struct {
	Transport     string   `mapstructure:"transport"` // smtp or outbox
	SMTPHost      string   `mapstructure:"smtp_host"`
	SMTPPort      int      `mapstructure:"smtp_port"`
	SMTPUsername  string   `mapstructure:"smtp_username"`
	SMTPPassword  string   `mapstructure:"smtp_password"`
	From          string   `mapstructure:"from"`
	FromName      string   `mapstructure:"from_name"`
	Recipients    []string `mapstructure:"recipients"`
	SubjectPrefix string   `mapstructure:"subject_prefix"`
	OutboxDir     string   `mapstructure:"outbox_dir"`
}

// RateLimitConfig limits verification attempts per client IP
type RateLimitConfig struct {
	VerifyAttempts int           `mapstructure:"verify_attempts"`
	Window         time.Duration `mapstructure:"window"`
}

// ReportsConfig holds report export settings
type ReportsConfig struct {
	Store      string        `mapstructure:"store"` // local or s3
	Dir        string        `mapstructure:"dir"`
	Timezone   string        `mapstructure:"timezone"`
	ExportHour int           `mapstructure:"export_hour"`
	Daily      bool          `mapstructure:"daily"`
	Interval   time.Duration `mapstructure:"interval"`
	S3         S3Config      `mapstructure:"s3"`
}

// S3Config holds S3-compatible bucket settings
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Prefix          string `mapstructure:"prefix"`
	PublicURL       string `mapstructure:"public_url"`
}

// MetricsConfig holds Prometheus endpoint settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from an optional .env file, an optional YAML file
// and VISITFORM_ environment variables, in increasing precedence.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Mail.Recipients = splitList(cfg.Mail.Recipients)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports the variables of path without overriding the environment
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values.
// Every key has a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.path", "data/visitform.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	// Field client defaults
	v.SetDefault("backend.base_url", "https://backend-email-murex.vercel.app")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("location.provider", "static")
	v.SetDefault("location.latitude", 32.5333)
	v.SetDefault("location.longitude", -117.0167)
	v.SetDefault("location.url", "http://ip-api.com/json/")
	v.SetDefault("location.permission_granted", true)
	v.SetDefault("location.timeout", 10*time.Second)
	v.SetDefault("submission.mode", "http")

	// Mail defaults
	v.SetDefault("mail.transport", "smtp")
	v.SetDefault("mail.smtp_host", "localhost")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.smtp_username", "")
	v.SetDefault("mail.smtp_password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.from_name", "Registro de Visitas")
	v.SetDefault("mail.recipients", []string{})
	v.SetDefault("mail.subject_prefix", "Nuevo registro de cliente")
	v.SetDefault("mail.outbox_dir", "outbox")

	// Rate limit defaults
	v.SetDefault("rate_limit.verify_attempts", 10)
	v.SetDefault("rate_limit.window", time.Minute)

	// Report defaults
	v.SetDefault("reports.store", "local")
	v.SetDefault("reports.dir", "reports")
	v.SetDefault("reports.timezone", "Local")
	v.SetDefault("reports.export_hour", 6)
	v.SetDefault("reports.daily", true)
	v.SetDefault("reports.interval", time.Minute)
	v.SetDefault("reports.s3.bucket", "")
	v.SetDefault("reports.s3.region", "auto")
	v.SetDefault("reports.s3.endpoint", "")
	v.SetDefault("reports.s3.access_key_id", "")
	v.SetDefault("reports.s3.secret_access_key", "")
	v.SetDefault("reports.s3.prefix", "")
	v.SetDefault("reports.s3.public_url", "")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// bindEnvVars binds the conventional credential variables as fallbacks
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("mail.smtp_username", EnvPrefix+"_MAIL_SMTP_USERNAME", "SMTP_USERNAME")
	v.BindEnv("mail.smtp_password", EnvPrefix+"_MAIL_SMTP_PASSWORD", "SMTP_PASSWORD")
	v.BindEnv("reports.s3.access_key_id", EnvPrefix+"_REPORTS_S3_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID")
	v.BindEnv("reports.s3.secret_access_key", EnvPrefix+"_REPORTS_S3_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY")
}

// splitList accepts both YAML lists and a comma separated environment value
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console")
	}

	switch c.Location.Provider {
	case "static":
	case "http":
		if c.Location.URL == "" {
			return fmt.Errorf("location.url is required for the http provider")
		}
	default:
		return fmt.Errorf("location.provider must be static or http")
	}

	switch c.Submission.Mode {
	case "http":
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("backend.base_url is required")
		}
	case "mail":
	default:
		return fmt.Errorf("submission.mode must be http or mail")
	}

	switch c.Mail.Transport {
	case "smtp", "outbox":
	default:
		return fmt.Errorf("mail.transport must be smtp or outbox")
	}
	for _, recipient := range c.Mail.Recipients {
		if err := utils.ValidateEmail(recipient); err != nil {
			return fmt.Errorf("mail.recipients: %w", err)
		}
	}

	switch c.Reports.Store {
	case "local":
	case "s3":
		if c.Reports.S3.Bucket == "" {
			return fmt.Errorf("reports.s3.bucket is required for the s3 store")
		}
	default:
		return fmt.Errorf("reports.store must be local or s3")
	}
	if c.Reports.ExportHour < 0 || c.Reports.ExportHour > 23 {
		return fmt.Errorf("reports.export_hour must be between 0 and 23")
	}
	if _, err := c.Reports.Location(); err != nil {
		return fmt.Errorf("reports.timezone: %w", err)
	}

	return nil
}

// ValidateMailDelivery checks the settings needed to actually send visit e-mails
func (c *Config) ValidateMailDelivery() error {
	if len(c.Mail.Recipients) == 0 {
		return fmt.Errorf("mail.recipients is required")
	}
	if c.Mail.Transport == "smtp" {
		if c.Mail.SMTPHost == "" {
			return fmt.Errorf("mail.smtp_host is required")
		}
		if err := utils.ValidateEmail(c.Mail.From); err != nil {
			return fmt.Errorf("mail.from: %w", err)
		}
	}
	return nil
}

// Location returns the time zone used for report days
func (r ReportsConfig) Location() (*time.Location, error) {
	if r.Timezone == "" || r.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(r.Timezone)
}
