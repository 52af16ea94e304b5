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

// SessionObserver is notified after every session change, outside the gate lock
type SessionObserver func(prev, next SessionState)

// sessionGate is the concrete implementation of SessionGate
type sessionGate struct {
	machine  domainwf.StateMachine[SessionState]
	verifier port.Verifier
	form     FormEngine
	observer SessionObserver
	logger   *zap.Logger

	mu    sync.Mutex
	state SessionState
}

// SessionOption configures the session gate
type SessionOption func(*sessionGate)

// WithSessionObserver registers a callback for session changes
func WithSessionObserver(fn SessionObserver) SessionOption {
	return func(g *sessionGate) {
		g.observer = fn
	}
}

// WithSessionLogger sets the logger
func WithSessionLogger(logger *zap.Logger) SessionOption {
	return func(g *sessionGate) {
		g.logger = logger
	}
}

// NewSessionGate creates a signed out gate. form is reset on logout and may be nil.
func NewSessionGate(verifier port.Verifier, form FormEngine, opts ...SessionOption) SessionGate {
	g := &sessionGate{
		machine:  BuildSessionStateMachine(),
		verifier: verifier,
		form:     form,
		logger:   zap.NewNop(),
		state:    SessionState{Phase: domainwf.StateSignedOut},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *sessionGate) State() SessionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *sessionGate) Salesperson() *entity.Salesperson {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Salesperson
}

func (g *sessionGate) SetPhoneNumber(text string) (SessionState, error) {
	return g.fire(context.Background(), domainwf.TriggerEdit, func(next *SessionState) {
		digits := utils.NormalizeDigits(text)
		if len(digits) > utils.PhoneDigits {
			digits = digits[:utils.PhoneDigits]
		}
		next.PhoneNumber = digits
	})
}

func (g *sessionGate) Verify(ctx context.Context) (SessionState, error) {
	s, err := g.fire(ctx, domainwf.TriggerVerify, func(next *SessionState) {
		if next.Phase == domainwf.StateShowingResult {
			next.Result = &Result{Kind: ResultError, Title: failure.TitleInvalidNumber, Message: failure.MsgInvalidNumber}
		}
	})
	if err != nil || s.Phase != domainwf.StateVerifying {
		return s, err
	}

	sp, err := g.verifier.Verify(ctx, s.PhoneNumber)
	if err != nil {
		g.logger.Info("Salesperson verification failed",
			zap.String("phone", s.PhoneNumber),
			zap.Error(err))
		result := &Result{Kind: ResultError, Title: failure.TitleConnectionError, Message: failure.MsgConnectionError}
		switch failure.KindOf(err) {
		case failure.KindUnauthorized, failure.KindNotFound, failure.KindValidation, failure.KindRateLimited:
			result = &Result{
				Kind:    ResultError,
				Title:   failure.TitleOf(err, failure.TitleAccessDenied),
				Message: failure.MessageOf(err, failure.MsgAccessDenied),
			}
		}
		return g.fire(ctx, domainwf.TriggerRejected, func(next *SessionState) {
			next.Result = result
		})
	}

	g.logger.Info("Salesperson verified", zap.String("name", sp.Name))
	return g.fire(ctx, domainwf.TriggerVerified, func(next *SessionState) {
		next.Salesperson = sp
	})
}

func (g *sessionGate) Dismiss() (SessionState, error) {
	return g.fire(context.Background(), domainwf.TriggerDismiss, nil)
}

func (g *sessionGate) RequestLogout() (SessionState, error) {
	if g.form != nil && g.form.State().Phase.IsBusy() {
		return g.State(), ErrBusy
	}
	return g.fire(context.Background(), domainwf.TriggerRequestLogout, nil)
}

func (g *sessionGate) ConfirmLogout() (SessionState, error) {
	current := g.State()
	if current.Phase != domainwf.StateAwaitingLogoutConfirmation {
		return current, fmt.Errorf("%w: cannot fire trigger %s from state %s",
			domainwf.ErrInvalidTransition, domainwf.TriggerConfirmLogout, current.Phase)
	}
	if g.form != nil {
		if _, err := g.form.Reset(); err != nil {
			return current, fmt.Errorf("reset form: %w", err)
		}
	}

	return g.fire(context.Background(), domainwf.TriggerConfirmLogout, func(next *SessionState) {
		next.PhoneNumber = ""
		next.Salesperson = nil
	})
}

func (g *sessionGate) CancelLogout() (SessionState, error) {
	return g.fire(context.Background(), domainwf.TriggerCancel, nil)
}

func (g *sessionGate) fire(ctx context.Context, trigger domainwf.Trigger, mutate func(next *SessionState)) (SessionState, error) {
	g.mu.Lock()
	prev := g.state
	phase, err := g.machine.Fire(ctx, prev.Phase, trigger, prev)
	if err != nil {
		g.mu.Unlock()
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
		mutate(&next)
	}
	g.state = next
	g.mu.Unlock()

	g.logger.Debug("Session transition",
		zap.String("trigger", trigger.String()),
		zap.String("from", prev.Phase.String()),
		zap.String("to", next.Phase.String()))
	if g.observer != nil {
		g.observer(prev, next)
	}

	return next, nil
}

var _ SessionGate = (*sessionGate)(nil)
