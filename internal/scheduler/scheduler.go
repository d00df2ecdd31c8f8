package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/taskboard-api/internal/platform/logger"
)

// Job is a unit of periodic work. now is the scheduler's clock at the tick
// that triggered the run.
type Job interface {
	Name() string
	Run(ctx context.Context, now time.Time) error
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the TickerFactory backed by time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// ErrAlreadyStarted is returned by Start on a running scheduler.
var ErrAlreadyStarted = errors.New("scheduler already started")

type scheduledJob struct {
	job      Job
	interval time.Duration
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithTickerFactory replaces the ticker used for every job.
func WithTickerFactory(f TickerFactory) Option {
	return func(s *Scheduler) {
		s.newTicker = f
	}
}

// WithClock replaces the clock passed to RunOnce.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.clock = now
	}
}

// Scheduler runs registered jobs at fixed intervals.
type Scheduler struct {
	mu        sync.Mutex
	jobs      []scheduledJob
	newTicker TickerFactory
	clock     func() time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// New creates a Scheduler. If logger is nil, a default logger will be used.
func New(logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		newTicker: NewTimeTicker,
		clock:     time.Now,
		logger:    logger.With(slog.String("component", "scheduler")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds job to run every interval. Jobs registered after Start only
// run once the scheduler is restarted.
func (s *Scheduler) Register(job Job, interval time.Duration) {
	if interval <= 0 {
		panic(fmt.Sprintf("scheduler: non-positive interval for job %q", job.Name()))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, scheduledJob{job: job, interval: interval})
}

// Start launches one goroutine per job. The jobs stop when ctx is done or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrAlreadyStarted
	}
	ctx, s.cancel = context.WithCancel(ctx)

	for _, sj := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, sj)
	}
	s.logger.Info("scheduler started", slog.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels every job and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// RunOnce runs every job a single time at the scheduler's clock.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	jobs := append([]scheduledJob(nil), s.jobs...)
	s.mu.Unlock()

	now := s.clock()
	var errs []error
	for _, sj := range jobs {
		if err := s.run(ctx, sj, now); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sj.job.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) loop(ctx context.Context, sj scheduledJob) {
	defer s.wg.Done()

	ticker := s.newTicker(sj.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			if err := s.run(ctx, sj, now); err != nil && ctx.Err() == nil {
				s.logger.Error("job failed",
					slog.String("job", sj.job.Name()),
					slog.Any("error", err))
			}
		}
	}
}

// run executes one occurrence of a job, bounded by the job's interval.
func (s *Scheduler) run(ctx context.Context, sj scheduledJob, now time.Time) (err error) {
	ctx, cancel := context.WithTimeout(ctx, sj.interval)
	defer cancel()

	log := s.logger.With(slog.String("job", sj.job.Name()))
	ctx = logger.WithLogger(ctx, log)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job panicked: %v", p)
		}
	}()

	start := time.Now()
	err = sj.job.Run(ctx, now)
	log.Debug("job finished", slog.Duration("elapsed", time.Since(start)))
	return err
}
