package location

import (
	"context"

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/failure"
)

// StaticProvider reports a fixed position. It stands in for a device GPS
// on hosts that have none.
type StaticProvider struct {
	position          entity.Coordinates
	permissionGranted bool
}

// NewStaticProvider creates a provider returning position
func NewStaticProvider(position entity.Coordinates, permissionGranted bool) *StaticProvider {
	return &StaticProvider{
		position:          position,
		permissionGranted: permissionGranted,
	}
}

// RequestPermission returns the configured permission
func (p *StaticProvider) RequestPermission(ctx context.Context) (port.Permission, error) {
	if p.permissionGranted {
		return port.PermissionGranted, nil
	}
	return port.PermissionDenied, nil
}

// GetCurrentPosition returns the configured position
func (p *StaticProvider) GetCurrentPosition(ctx context.Context) (entity.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return entity.Coordinates{}, failure.Wrap(err, failure.KindLocationUnavailable, "location.static", failure.TitleLocationError, failure.MsgLocationError)
	}
	if !p.position.Valid() {
		return entity.Coordinates{}, failure.New(failure.KindLocationUnavailable, "location.static", failure.TitleLocationError, failure.MsgLocationError)
	}
	return p.position, nil
}

var _ port.LocationProvider = (*StaticProvider)(nil)
