// Package scheduler runs the periodic background jobs of the task board:
// emailing reminders for tasks that are about to fall due and moving overdue
// tasks to FAILED.
//
// Each registered job runs on its own ticker. Tickers and the clock are
// injectable so tests can drive the scheduler without waiting.
package scheduler
