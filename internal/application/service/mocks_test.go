package service

import (
	"context"
	"sync"
	"time"

	"github.com/fieldsales/visitform/internal/application/dispatcher"
	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/event"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockSalespersonRepo struct {
	getByPhoneFunc func(ctx context.Context, phone string) (*entity.Salesperson, error)
	upsertFunc     func(ctx context.Context, sp *entity.Salesperson) error
	upserted       []*entity.Salesperson
}

func (m *mockSalespersonRepo) GetByPhone(ctx context.Context, phone string) (*entity.Salesperson, error) {
	if m.getByPhoneFunc != nil {
		return m.getByPhoneFunc(ctx, phone)
	}
	return nil, nil
}

func (m *mockSalespersonRepo) Upsert(ctx context.Context, sp *entity.Salesperson) error {
	if m.upsertFunc != nil {
		if err := m.upsertFunc(ctx, sp); err != nil {
			return err
		}
	}
	m.upserted = append(m.upserted, sp)
	return nil
}

func (m *mockSalespersonRepo) List(ctx context.Context) ([]*entity.Salesperson, error) {
	return m.upserted, nil
}

type mockVisitRepo struct {
	createFunc      func(ctx context.Context, visit *entity.Visit) error
	listBetweenFunc func(ctx context.Context, from, to time.Time) ([]*entity.Visit, error)

	created []*entity.Visit
	sent    map[string]time.Time
	failed  map[string]string
}

func (m *mockVisitRepo) Create(ctx context.Context, visit *entity.Visit) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, visit); err != nil {
			return err
		}
	}
	copied := *visit
	m.created = append(m.created, &copied)
	return nil
}

func (m *mockVisitRepo) GetByID(ctx context.Context, id string) (*entity.Visit, error) {
	for _, v := range m.created {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (m *mockVisitRepo) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	if m.sent == nil {
		m.sent = make(map[string]time.Time)
	}
	m.sent[id] = sentAt
	return nil
}

func (m *mockVisitRepo) MarkFailed(ctx context.Context, id string, errorMsg string) error {
	if m.failed == nil {
		m.failed = make(map[string]string)
	}
	m.failed[id] = errorMsg
	return nil
}

func (m *mockVisitRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Visit, error) {
	if m.listBetweenFunc != nil {
		return m.listBetweenFunc(ctx, from, to)
	}
	return nil, nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockGateway struct {
	submitFunc func(ctx context.Context, sub entity.Submission) error
	submitted  []entity.Submission
}

func (m *mockGateway) Submit(ctx context.Context, sub entity.Submission) error {
	m.submitted = append(m.submitted, sub)
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	return nil
}

type mockRenderer struct {
	rendered [][]*entity.Visit
}

func (m *mockRenderer) RenderVisits(visits []*entity.Visit) ([]byte, error) {
	m.rendered = append(m.rendered, visits)
	return []byte("xlsx"), nil
}

type mockFileStore struct {
	files map[string][]byte
}

func (m *mockFileStore) Put(ctx context.Context, key string, content []byte) (string, error) {
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[key] = content
	return "mem://" + key, nil
}

func (m *mockFileStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.files[key]
	return ok, nil
}

// recordingDispatcher records events synchronously
type recordingDispatcher struct {
	mu     sync.Mutex
	events []*event.Event
}

func (d *recordingDispatcher) Subscribe(event.Type, string, dispatcher.Handler) {}

func (d *recordingDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	d.DispatchAsync(ctx, evt)
	return nil
}

func (d *recordingDispatcher) DispatchAsync(_ context.Context, evt *event.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, evt)
}

func (d *recordingDispatcher) Handlers(event.Type) []string { return nil }
func (d *recordingDispatcher) Close() error                 { return nil }

func (d *recordingDispatcher) types() []event.Type {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]event.Type, len(d.events))
	for i, e := range d.events {
		out[i] = e.Type
	}
	return out
}

var _ dispatcher.Dispatcher = (*recordingDispatcher)(nil)
