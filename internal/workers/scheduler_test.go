package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorker struct {
	*BaseWorker
	runCount int32
	runFunc  func(ctx context.Context) error
}

func newFakeWorker(name string, interval time.Duration, enabled bool) *fakeWorker {
	return &fakeWorker{
		BaseWorker: NewBaseWorker(name, interval, enabled),
	}
}

func (w *fakeWorker) Run(ctx context.Context) error {
	atomic.AddInt32(&w.runCount, 1)
	if w.runFunc != nil {
		return w.runFunc(ctx)
	}
	return nil
}

func (w *fakeWorker) Runs() int {
	return int(atomic.LoadInt32(&w.runCount))
}

func TestScheduler_StartStop(t *testing.T) {
	scheduler := NewScheduler()

	worker := newFakeWorker("refresh-a", 100*time.Millisecond, true)
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	time.Sleep(250 * time.Millisecond)

	require.NoError(t, scheduler.Stop())
	assert.False(t, scheduler.IsRunning())

	// Immediate run plus at least one tick
	assert.GreaterOrEqual(t, worker.Runs(), 2)
}

func TestScheduler_DisabledWorkerNeverRuns(t *testing.T) {
	scheduler := NewScheduler()

	enabled := newFakeWorker("enabled", 100*time.Millisecond, true)
	disabled := newFakeWorker("disabled", 100*time.Millisecond, false)
	scheduler.RegisterWorker(enabled)
	scheduler.RegisterWorker(disabled)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(250 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	assert.Greater(t, enabled.Runs(), 0)
	assert.Equal(t, 0, disabled.Runs())
}

func TestScheduler_FailingWorkerKeepsTicking(t *testing.T) {
	scheduler := NewScheduler()

	worker := newFakeWorker("flaky", 100*time.Millisecond, true)
	worker.runFunc = func(ctx context.Context) error {
		return assert.AnError
	}
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(250 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	assert.GreaterOrEqual(t, worker.Runs(), 2)
}

func TestScheduler_PanickingWorkerKeepsTicking(t *testing.T) {
	scheduler := NewScheduler()

	worker := newFakeWorker("panicky", 100*time.Millisecond, true)
	worker.runFunc = func(ctx context.Context) error {
		panic("boom")
	}
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(250 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	assert.GreaterOrEqual(t, worker.Runs(), 2)
}

func TestScheduler_ContextCancellation(t *testing.T) {
	scheduler := NewScheduler()

	worker := newFakeWorker("refresh-a", 100*time.Millisecond, true)
	scheduler.RegisterWorker(worker)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, scheduler.Start(ctx))

	cancel()
	time.Sleep(200 * time.Millisecond)

	// Stop still works after the parent context is gone
	require.NoError(t, scheduler.Stop())
}

func TestScheduler_CannotStartTwice(t *testing.T) {
	scheduler := NewScheduler()
	scheduler.RegisterWorker(newFakeWorker("refresh-a", 100*time.Millisecond, true))

	ctx := context.Background()
	require.NoError(t, scheduler.Start(ctx))
	assert.Error(t, scheduler.Start(ctx))

	_ = scheduler.Stop()
}

func TestScheduler_GetWorkers(t *testing.T) {
	scheduler := NewScheduler()

	scheduler.RegisterWorker(newFakeWorker("refresh-a", 100*time.Millisecond, true))
	scheduler.RegisterWorker(newFakeWorker("refresh-b", 200*time.Millisecond, false))

	workers := scheduler.GetWorkers()
	require.Len(t, workers, 2)
	assert.Equal(t, "refresh-a", workers[0].Name())
	assert.Equal(t, "refresh-b", workers[1].Name())
}
