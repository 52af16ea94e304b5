package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReports struct {
	mu   sync.Mutex
	days []time.Time
	err  error
}

func (f *fakeReports) Export(ctx context.Context, from, to time.Time) ([]byte, error) {
	return nil, nil
}

func (f *fakeReports) StoreDaily(ctx context.Context, day time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = append(f.days, day)
	if f.err != nil {
		return "", f.err
	}
	return "mem://" + day.Format(time.DateOnly), nil
}

func (f *fakeReports) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.days)
}

func TestReportWorker_Tick(t *testing.T) {
	reports := &fakeReports{}
	w := NewReportWorker(ReportWorkerConfig{ExportHour: 6, Location: time.UTC}, reports, zap.NewNop())

	now := time.Date(2024, 3, 6, 5, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	w.tick(context.Background())
	assert.Equal(t, 0, reports.calls(), "before export hour")

	now = time.Date(2024, 3, 6, 6, 0, 0, 0, time.UTC)
	w.tick(context.Background())
	require.Equal(t, 1, reports.calls())
	assert.Equal(t, "2024-03-05", reports.days[0].Format(time.DateOnly))

	now = now.Add(3 * time.Hour)
	w.tick(context.Background())
	assert.Equal(t, 1, reports.calls(), "once per day")

	now = time.Date(2024, 3, 7, 7, 0, 0, 0, time.UTC)
	w.tick(context.Background())
	assert.Equal(t, 2, reports.calls())
}

func TestReportWorker_RetriesAfterFailure(t *testing.T) {
	reports := &fakeReports{err: errors.New("bucket unavailable")}
	w := NewReportWorker(ReportWorkerConfig{ExportHour: 0, Location: time.UTC}, reports, zap.NewNop())
	w.now = func() time.Time { return time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC) }

	w.tick(context.Background())
	w.tick(context.Background())
	assert.Equal(t, 2, reports.calls())

	reports.err = nil
	w.tick(context.Background())
	w.tick(context.Background())
	assert.Equal(t, 3, reports.calls())
}

func TestManager_Lifecycle(t *testing.T) {
	reports := &fakeReports{}
	w := NewReportWorker(ReportWorkerConfig{ExportHour: 0, PollInterval: time.Hour, Location: time.UTC}, reports, zap.NewNop())

	m := NewManager(zap.NewNop())
	m.Register(w)

	require.NoError(t, m.StartAll(context.Background()))
	assert.True(t, m.IsRunning())
	assert.Error(t, m.StartAll(context.Background()))

	assert.Eventually(t, func() bool { return reports.calls() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, m.StopAll())
	assert.False(t, m.IsRunning())
	require.NoError(t, m.StopAll())
}

func TestReportWorker_DoubleStart(t *testing.T) {
	w := NewReportWorker(ReportWorkerConfig{ExportHour: 23, PollInterval: time.Hour, Location: time.UTC}, &fakeReports{}, zap.NewNop())
	w.now = func() time.Time { return time.Date(2024, 3, 6, 1, 0, 0, 0, time.UTC) }

	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
