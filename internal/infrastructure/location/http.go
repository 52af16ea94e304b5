package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/failure"
)

// lookupResponse is the body of an ip-api style geolocation lookup
type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// HTTPConfig holds geolocation lookup settings
type HTTPConfig struct {
	URL               string
	Timeout           time.Duration
	PermissionGranted bool
}

// HTTPProvider resolves the position with a network geolocation lookup
type HTTPProvider struct {
	url               string
	permissionGranted bool
	client            *http.Client
	logger            *zap.Logger
}

// NewHTTPProvider creates a lookup-backed provider
func NewHTTPProvider(cfg HTTPConfig, logger *zap.Logger) *HTTPProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		url:               cfg.URL,
		permissionGranted: cfg.PermissionGranted,
		client:            &http.Client{Timeout: timeout},
		logger:            logger,
	}
}

// RequestPermission returns the configured permission
func (p *HTTPProvider) RequestPermission(ctx context.Context) (port.Permission, error) {
	if p.permissionGranted {
		return port.PermissionGranted, nil
	}
	return port.PermissionDenied, nil
}

// GetCurrentPosition queries the lookup URL
func (p *HTTPProvider) GetCurrentPosition(ctx context.Context) (entity.Coordinates, error) {
	coords, err := p.lookup(ctx)
	if err != nil {
		p.logger.Warn("Location lookup failed", zap.String("url", p.url), zap.Error(err))
		return entity.Coordinates{}, failure.Wrap(err, failure.KindLocationUnavailable, "location.http", failure.TitleLocationError, failure.MsgLocationError)
	}

	p.logger.Debug("Location acquired",
		zap.Float64("latitude", coords.Latitude),
		zap.Float64("longitude", coords.Longitude))

	return coords, nil
}

func (p *HTTPProvider) lookup(ctx context.Context) (entity.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return entity.Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return entity.Coordinates{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.Coordinates{}, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return entity.Coordinates{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if body.Status != "" && body.Status != "success" {
		return entity.Coordinates{}, fmt.Errorf("lookup failed: %s", body.Message)
	}

	coords := entity.Coordinates{Latitude: body.Lat, Longitude: body.Lon}
	if !coords.Valid() {
		return entity.Coordinates{}, fmt.Errorf("lookup returned invalid position %v,%v", body.Lat, body.Lon)
	}
	return coords, nil
}

var _ port.LocationProvider = (*HTTPProvider)(nil)
