package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/redact"
	"github.com/phrazzld/taskboard-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// ReminderNotifier sends the reminder email for a task.
type ReminderNotifier interface {
	SendTaskReminder(ctx context.Context, task domain.Task) error
}

// ReminderConfig configures a ReminderJob.
type ReminderConfig struct {
	// Window is how far ahead of now a task's time may be to get a reminder.
	Window time.Duration
	// Location is the zone task deadlines are expressed in.
	Location *time.Location
	// Concurrency bounds the emails sent at once. Values below 1 mean 1.
	Concurrency int
}

// ReminderJob emails assignees whose task is due within the window and marks
// the task so it is only reminded once.
type ReminderJob struct {
	tasks    store.TaskStore
	notifier ReminderNotifier
	cfg      ReminderConfig
}

// NewReminderJob creates a ReminderJob.
func NewReminderJob(tasks store.TaskStore, notifier ReminderNotifier, cfg ReminderConfig) *ReminderJob {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &ReminderJob{tasks: tasks, notifier: notifier, cfg: cfg}
}

// Name implements Job.
func (j *ReminderJob) Name() string { return "task_reminder" }

// Window returns the task selection for a run at now. Tasks match on their
// hour and minute fields only: the hour of now+window, and a minute between
// now's minute and that of now+window.
func (j *ReminderJob) Window(now time.Time) store.ReminderWindow {
	local := now.In(j.cfg.Location)
	target := local.Add(j.cfg.Window)
	return store.ReminderWindow{
		Hour:       target.Hour(),
		FromMinute: local.Minute(),
		ToMinute:   target.Minute(),
	}
}

// Run implements Job. A failed send leaves the task unmarked so the next run
// retries it.
func (j *ReminderJob) Run(ctx context.Context, now time.Time) error {
	log := logger.FromContext(ctx)

	due, err := j.tasks.FindDueForReminder(ctx, j.Window(now))
	if err != nil {
		return fmt.Errorf("failed to find tasks due for reminder: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	var sent, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.cfg.Concurrency)
	for _, task := range due {
		g.Go(func() error {
			if err := j.notifier.SendTaskReminder(gctx, task); err != nil {
				failed.Add(1)
				log.Warn("failed to send task reminder",
					slog.String("task_id", task.ID.String()),
					slog.String("error", redact.Error(err)))
				return nil
			}
			if err := j.tasks.MarkReminderSent(gctx, task.ID); err != nil {
				failed.Add(1)
				log.Error("failed to mark reminder sent",
					slog.String("task_id", task.ID.String()),
					slog.Any("error", err))
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	log.Info("task reminders processed",
		slog.Int("due", len(due)),
		slog.Int64("sent", sent.Load()),
		slog.Int64("failed", failed.Load()))
	return nil
}

// SweepJob moves every active task whose deadline has passed to FAILED.
type SweepJob struct {
	tasks store.TaskStore
	loc   *time.Location
}

// NewSweepJob creates a SweepJob evaluating deadlines in loc.
func NewSweepJob(tasks store.TaskStore, loc *time.Location) *SweepJob {
	if loc == nil {
		loc = time.Local
	}
	return &SweepJob{tasks: tasks, loc: loc}
}

// Name implements Job.
func (j *SweepJob) Name() string { return "overdue_sweep" }

// Cutoff returns the wall-clock instant in the job's zone that now maps to.
func (j *SweepJob) Cutoff(now time.Time) store.OverdueCutoff {
	local := now.In(j.loc)
	return store.OverdueCutoff{
		Date:   local.Format(domain.DeadlineLayout),
		Hour:   local.Hour(),
		Minute: local.Minute(),
	}
}

// Run implements Job.
func (j *SweepJob) Run(ctx context.Context, now time.Time) error {
	ids, err := j.tasks.MarkOverdueFailed(ctx, j.Cutoff(now))
	if err != nil {
		return fmt.Errorf("failed to sweep overdue tasks: %w", err)
	}
	if len(ids) > 0 {
		logger.FromContext(ctx).Info("overdue tasks marked failed",
			slog.Int("count", len(ids)),
			slog.Any("task_ids", uuidStrings(ids)))
	}
	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
