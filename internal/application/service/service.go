package service

import (
	"context"
	"time"

	"github.com/fieldsales/visitform/internal/application/dispatcher"
	"github.com/fieldsales/visitform/internal/domain/event"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Clock returns the current time
type Clock func() time.Time

// publish hands the event to the dispatcher without blocking the caller
func publish(ctx context.Context, d dispatcher.Dispatcher, evt *event.Event) {
	if d == nil {
		return
	}
	d.DispatchAsync(ctx, evt)
}
