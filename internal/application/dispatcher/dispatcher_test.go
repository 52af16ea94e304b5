package dispatcher

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fieldsales/visitform/internal/domain/event"
)

func noop(ctx context.Context, evt *event.Event) error { return nil }

func TestDispatch_RunsHandlersInOrder(t *testing.T) {
	d := NewDispatcher(nil)
	var order []string

	d.Subscribe(event.TypeVisitSent, "first", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "first")
		return nil
	})
	d.Subscribe(event.TypeVisitSent, "second", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "second")
		return nil
	})
	d.Subscribe(event.TypeVisitFailed, "other", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "other")
		return nil
	})

	if err := d.Dispatch(context.Background(), event.NewEvent(event.TypeVisitSent, "v-1", nil)); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("unexpected call order: %v", order)
	}
}

func TestDispatch_ContinuesAfterFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	d := NewDispatcher(zap.New(core))

	boom := errors.New("boom")
	called := false
	d.Subscribe(event.TypeVisitSent, "failing", func(ctx context.Context, evt *event.Event) error {
		return boom
	})
	d.Subscribe(event.TypeVisitSent, "panicking", func(ctx context.Context, evt *event.Event) error {
		panic("bad handler")
	})
	d.Subscribe(event.TypeVisitSent, "healthy", func(ctx context.Context, evt *event.Event) error {
		called = true
		return nil
	})

	err := d.Dispatch(context.Background(), event.NewEvent(event.TypeVisitSent, "v-1", nil))
	if !errors.Is(err, boom) {
		t.Errorf("expected joined error to wrap boom, got %v", err)
	}
	if !called {
		t.Error("expected healthy handler to run")
	}
	if logs.Len() != 2 {
		t.Errorf("expected 2 error logs, got %d", logs.Len())
	}
}

func TestDispatch_NoHandlers(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	if err := d.Dispatch(context.Background(), event.NewEvent(event.TypeReportExported, "r", nil)); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestDispatchAsync_SurvivesCanceledContext(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	var calls atomic.Int32
	var sawCanceled atomic.Bool

	d.Subscribe(event.TypeVisitRecorded, "slow", func(ctx context.Context, evt *event.Event) error {
		time.Sleep(10 * time.Millisecond)
		if ctx.Err() != nil {
			sawCanceled.Store(true)
		}
		calls.Add(1)
		return nil
	})
	d.Subscribe(event.TypeVisitRecorded, "fast", func(ctx context.Context, evt *event.Event) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	d.DispatchAsync(ctx, event.NewEvent(event.TypeVisitRecorded, "v-1", nil))
	cancel()

	if err := d.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
	if sawCanceled.Load() {
		t.Error("async handler must not observe request cancellation")
	}
}

func TestClose(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	d.Subscribe(event.TypeVisitSent, "h", noop)

	if err := d.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := d.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on second close, got %v", err)
	}
	if err := d.Dispatch(context.Background(), event.NewEvent(event.TypeVisitSent, "v", nil)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}

	// must not panic or block
	d.DispatchAsync(context.Background(), event.NewEvent(event.TypeVisitSent, "v", nil))
}

func TestHandlers(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	d.Subscribe(event.TypeVisitSent, "metrics", noop)
	d.Subscribe(event.TypeVisitSent, "audit-log", noop)

	names := d.Handlers(event.TypeVisitSent)
	if len(names) != 2 || names[0] != "metrics" || names[1] != "audit-log" {
		t.Errorf("unexpected handlers: %v", names)
	}
	if got := d.Handlers(event.TypeVisitFailed); len(got) != 0 {
		t.Errorf("expected no handlers, got %v", got)
	}
}
