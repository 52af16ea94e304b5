package workflow

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/failure"
	domainwf "github.com/fieldsales/visitform/internal/domain/workflow"
	"github.com/fieldsales/visitform/pkg/utils"
)

// IdentityFunc adapts a function to IdentitySource
type IdentityFunc func() *entity.Salesperson

// Salesperson returns the verified identity
func (f IdentityFunc) Salesperson() *entity.Salesperson {
	return f()
}

// FormObserver is notified after every state change, outside the engine lock
type FormObserver func(prev, next FormState)

// formEngine is the concrete implementation of FormEngine
type formEngine struct {
	machine  domainwf.StateMachine[FormState]
	locator  port.LocationProvider
	gateway  port.SubmissionGateway
	identity IdentitySource
	observer FormObserver
	logger   *zap.Logger

	mu    sync.Mutex
	state FormState
}

// FormOption configures the form engine
type FormOption func(*formEngine)

// WithIdentity attaches salesperson fields to every submission
func WithIdentity(src IdentitySource) FormOption {
	return func(e *formEngine) {
		e.identity = src
	}
}

// WithFormObserver registers a callback for state changes
func WithFormObserver(fn FormObserver) FormOption {
	return func(e *formEngine) {
		e.observer = fn
	}
}

// WithFormLogger sets the logger
func WithFormLogger(logger *zap.Logger) FormOption {
	return func(e *formEngine) {
		e.logger = logger
	}
}

// NewFormEngine creates a form engine in the Idle state
func NewFormEngine(locator port.LocationProvider, gateway port.SubmissionGateway, opts ...FormOption) FormEngine {
	e := &formEngine{
		machine: BuildFormStateMachine(),
		locator: locator,
		gateway: gateway,
		logger:  zap.NewNop(),
		state:   initialFormState(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *formEngine) State() FormState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *formEngine) Start(ctx context.Context) (FormState, error) {
	perm, err := e.locator.RequestPermission(ctx)
	if err != nil {
		e.logger.Warn("Location permission request failed", zap.Error(err))
		perm = port.PermissionDenied
	}

	if perm == port.PermissionGranted {
		return e.update(func(next *FormState) {
			next.Permission = port.PermissionGranted
		}), nil
	}

	return e.fire(ctx, domainwf.TriggerPermissionDenied, func(_ FormState, next *FormState) {
		next.Permission = port.PermissionDenied
		next.Result = permissionDeniedResult()
	})
}

func (e *formEngine) SetClientNumber(text string) (FormState, error) {
	return e.fire(context.Background(), domainwf.TriggerEdit, func(_ FormState, next *FormState) {
		next.Record.ClientNumber = utils.NormalizeDigits(text)
	})
}

func (e *formEngine) SetClientName(text string) (FormState, error) {
	return e.fire(context.Background(), domainwf.TriggerEdit, func(_ FormState, next *FormState) {
		next.Record.ClientName = utils.NormalizeName(text)
	})
}

func (e *formEngine) RequestLocation(ctx context.Context) (FormState, error) {
	return e.fire(ctx, domainwf.TriggerRequestLocation, nil)
}

func (e *formEngine) ConfirmLocation(ctx context.Context) (FormState, error) {
	s, err := e.fire(ctx, domainwf.TriggerConfirmLocation, nil)
	if err != nil {
		return s, err
	}

	if s.Permission != port.PermissionGranted {
		perm, err := e.locator.RequestPermission(ctx)
		if err != nil || perm != port.PermissionGranted {
			e.logger.Info("Location permission denied", zap.Error(err))
			return e.fire(ctx, domainwf.TriggerPermissionDenied, func(_ FormState, next *FormState) {
				next.Permission = port.PermissionDenied
				next.Result = permissionDeniedResult()
			})
		}
		e.update(func(next *FormState) {
			next.Permission = port.PermissionGranted
		})
	}

	coords, err := e.locator.GetCurrentPosition(ctx)
	if err != nil {
		e.logger.Warn("Failed to get current position", zap.Error(err))
		if failure.Is(err, failure.KindPermissionDenied) {
			return e.fire(ctx, domainwf.TriggerPermissionDenied, func(_ FormState, next *FormState) {
				next.Permission = port.PermissionDenied
				next.Result = permissionDeniedResult()
			})
		}
		return e.fire(ctx, domainwf.TriggerLocationFailed, func(_ FormState, next *FormState) {
			next.Result = &Result{Kind: ResultError, Title: failure.TitleLocationError, Message: failure.MsgLocationError}
		})
	}

	return e.fire(ctx, domainwf.TriggerLocationAcquired, func(_ FormState, next *FormState) {
		next.Record = next.Record.WithCoordinates(coords)
		next.Region = regionAround(coords)
	})
}

func (e *formEngine) RequestSubmit(ctx context.Context) (FormState, error) {
	return e.fire(ctx, domainwf.TriggerRequestSubmit, func(_ FormState, next *FormState) {
		if next.Phase == domainwf.StateShowingResult {
			next.Result = &Result{Kind: ResultError, Title: failure.TitleIncompleteData, Message: failure.MsgIncompleteData}
		}
	})
}

func (e *formEngine) ConfirmSend(ctx context.Context) (FormState, error) {
	s, err := e.fire(ctx, domainwf.TriggerConfirmSend, nil)
	if err != nil {
		return s, err
	}

	var sp *entity.Salesperson
	if e.identity != nil {
		if sp = e.identity.Salesperson(); sp == nil {
			e.logger.Warn("Submission attempted without verified salesperson")
			return e.fire(ctx, domainwf.TriggerSubmitFailed, func(_ FormState, next *FormState) {
				next.Result = sendErrorResult(MsgSessionNotVerified)
			})
		}
	}

	submission := s.submission(sp)
	if err := e.gateway.Submit(ctx, submission); err != nil {
		e.logger.Warn("Submission failed",
			zap.String("client_number", submission.ClientNumber),
			zap.Error(err))
		return e.fire(ctx, domainwf.TriggerSubmitFailed, func(_ FormState, next *FormState) {
			next.Result = sendErrorResult(failure.MessageOf(err, failure.MsgServerError))
		})
	}

	e.logger.Info("Visit submitted",
		zap.String("client_number", submission.ClientNumber),
		zap.String("client_name", submission.ClientName))

	return e.fire(ctx, domainwf.TriggerSubmitSucceeded, func(_ FormState, next *FormState) {
		next.Result = &Result{Kind: ResultSuccess, Title: TitleSuccess, Message: MsgSuccess}
	})
}

func (e *formEngine) Cancel() (FormState, error) {
	return e.fire(context.Background(), domainwf.TriggerCancel, nil)
}

func (e *formEngine) Dismiss() (FormState, error) {
	return e.fire(context.Background(), domainwf.TriggerDismiss, func(prev FormState, next *FormState) {
		if prev.Result != nil && !prev.Result.IsError() {
			next.Record = entity.ClientRecord{}
		}
	})
}

func (e *formEngine) Reset() (FormState, error) {
	return e.fire(context.Background(), domainwf.TriggerReset, func(_ FormState, next *FormState) {
		next.Record = entity.ClientRecord{}
	})
}

// fire applies a transition and the accompanying data change atomically.
// Result is cleared unless the target phase shows one.
func (e *formEngine) fire(ctx context.Context, trigger domainwf.Trigger, mutate func(prev FormState, next *FormState)) (FormState, error) {
	e.mu.Lock()
	prev := e.state
	phase, err := e.machine.Fire(ctx, prev.Phase, trigger, prev)
	if err != nil {
		e.mu.Unlock()
		if prev.Phase.IsBusy() {
			return prev, fmt.Errorf("%w: %w", ErrBusy, err)
		}
		return prev, err
	}

	next := prev
	next.Phase = phase
	if phase != domainwf.StateShowingResult {
		next.Result = nil
	}
	if mutate != nil {
		mutate(prev, &next)
	}
	e.state = next
	e.mu.Unlock()

	e.logger.Debug("Form transition",
		zap.String("trigger", trigger.String()),
		zap.String("from", prev.Phase.String()),
		zap.String("to", next.Phase.String()))
	e.notify(prev, next)

	return next, nil
}

// update changes data that does not depend on the phase
func (e *formEngine) update(mutate func(next *FormState)) FormState {
	e.mu.Lock()
	prev := e.state
	next := prev
	mutate(&next)
	e.state = next
	e.mu.Unlock()

	e.notify(prev, next)
	return next
}

func (e *formEngine) notify(prev, next FormState) {
	if e.observer != nil {
		e.observer(prev, next)
	}
}

func permissionDeniedResult() *Result {
	return &Result{Kind: ResultError, Title: failure.TitlePermissionDenied, Message: failure.MsgPermissionDenied}
}

func sendErrorResult(reason string) *Result {
	return &Result{Kind: ResultError, Title: failure.TitleSendError, Message: fmt.Sprintf(failure.MsgSendErrorFmt, reason)}
}

var _ FormEngine = (*formEngine)(nil)
