package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/taskboard-api/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.once.Do(func() { close(t.stopped) }) }

type recordingJob struct {
	name  string
	err   error
	panic bool
	runs  chan time.Time
	ctxs  chan context.Context
}

func newRecordingJob(name string) *recordingJob {
	return &recordingJob{
		name: name,
		runs: make(chan time.Time, 10),
		ctxs: make(chan context.Context, 10),
	}
}

func (j *recordingJob) Name() string { return j.name }

func (j *recordingJob) Run(ctx context.Context, now time.Time) error {
	if j.panic {
		panic("boom")
	}
	j.runs <- now
	j.ctxs <- ctx
	return j.err
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)
	s := scheduler.New(nil, scheduler.WithClock(func() time.Time { return now }))

	ok := newRecordingJob("ok")
	failing := newRecordingJob("failing")
	failing.err = errors.New("store down")
	s.Register(ok, time.Minute)
	s.Register(failing, 2*time.Minute)

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, failing.err)
	assert.Contains(t, err.Error(), "failing")

	assert.Equal(t, now, <-ok.runs)
	assert.Equal(t, now, <-failing.runs)

	ctx := <-ok.ctxs
	deadline, hasDeadline := ctx.Deadline()
	require.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestRunOnceRecoversPanics(t *testing.T) {
	s := scheduler.New(nil)
	job := newRecordingJob("panicky")
	job.panic = true
	s.Register(job, time.Minute)

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestStartRunsJobsOnTicks(t *testing.T) {
	var (
		mu      sync.Mutex
		tickers = map[time.Duration]*manualTicker{}
	)
	factory := func(d time.Duration) scheduler.Ticker {
		mu.Lock()
		defer mu.Unlock()
		tk := &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
		tickers[d] = tk
		return tk
	}

	s := scheduler.New(nil, scheduler.WithTickerFactory(factory))
	reminder := newRecordingJob("reminder")
	sweep := newRecordingJob("sweep")
	s.Register(reminder, time.Minute)
	s.Register(sweep, 30*time.Second)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), scheduler.ErrAlreadyStarted)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(tickers) == 2
	}, time.Second, 5*time.Millisecond)

	tick := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	mu.Lock()
	minute, half := tickers[time.Minute], tickers[30*time.Second]
	mu.Unlock()

	minute.ch <- tick
	assert.Equal(t, tick, <-reminder.runs)

	half.ch <- tick.Add(time.Second)
	assert.Equal(t, tick.Add(time.Second), <-sweep.runs)

	s.Stop()
	for _, tk := range []*manualTicker{minute, half} {
		select {
		case <-tk.stopped:
		case <-time.After(time.Second):
			t.Fatal("ticker was not stopped")
		}
	}

	// Stop is idempotent and the scheduler can be started again.
	s.Stop()
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}

func TestStartStopsWithContext(t *testing.T) {
	stopped := make(chan struct{})
	factory := func(time.Duration) scheduler.Ticker {
		return &manualTicker{ch: make(chan time.Time), stopped: stopped}
	}
	s := scheduler.New(nil, scheduler.WithTickerFactory(factory))
	s.Register(newRecordingJob("job"), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("job loop did not exit on context cancellation")
	}
	s.Stop()
}

func TestRegisterRejectsNonPositiveInterval(t *testing.T) {
	s := scheduler.New(nil)
	assert.Panics(t, func() { s.Register(newRecordingJob("bad"), 0) })
}
