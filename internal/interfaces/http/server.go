// Package http serves the visit backend API used by the field client.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldsales/visitform/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// VerifyAttempts per VerifyWindow and client IP on /api/verify-user
	VerifyAttempts int
	VerifyWindow   time.Duration

	MetricsEnabled bool
	MetricsPath    string

	// ReportLocation interprets export date parameters
	ReportLocation *time.Location
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		VerifyAttempts: 10,
		VerifyWindow:   time.Minute,
		MetricsEnabled: true,
		MetricsPath:    "/metrics",
		ReportLocation: time.Local,
	}
}

// Services groups the application services behind the API
type Services struct {
	Salespeople service.SalespersonService
	Visits      service.VisitService
	Reports     service.ReportService
}

// Server is the HTTP server adapter
type Server struct {
	config      ServerConfig
	httpServer  *http.Server
	router      *gin.Engine
	services    Services
	verifyLimit *RateLimiter
	logger      Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	if config.ReportLocation == nil {
		config.ReportLocation = time.Local
	}

	server := &Server{
		config:      config,
		router:      gin.New(),
		services:    services,
		verifyLimit: NewRateLimiter(config.VerifyAttempts, config.VerifyWindow),
		logger:      logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware())
	if s.config.MetricsEnabled {
		s.router.Use(metricsMiddleware())
	}
}

func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.services, s.config.ReportLocation, s.logger)

	s.router.GET("/health", handlers.HealthCheck)
	if s.config.MetricsEnabled {
		s.router.GET(s.config.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	api := s.router.Group("/api")
	{
		api.POST("/verify-user", s.rateLimit(s.verifyLimit), handlers.VerifyUser)
		api.POST("/send-mail", handlers.SendMail)
		api.GET("/visits/export", handlers.ExportVisits)
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		s.verifyLimit.Stop()
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	s.verifyLimit.Stop()

	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
