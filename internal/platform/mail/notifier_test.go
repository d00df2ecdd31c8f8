package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestNotifier(t *testing.T, mailer Mailer) *Notifier {
	t.Helper()
	c, err := DefaultCatalog()
	require.NoError(t, err)
	return NewNotifier(c, mailer, NotifierConfig{
		AppName:         "Taskboard",
		ClientURL:       "https://app.example.com/",
		ActivationTTL:   10 * time.Minute,
		ResetTTL:        time.Hour,
		ReminderMinutes: 15,
	})
}

func TestNotifier(t *testing.T) {
	ctx := context.Background()
	m := &recordingMailer{}
	n := newTestNotifier(t, m)

	require.NoError(t, n.SendActivation(ctx, "bob@example.com", "Bob", "tok123"))
	require.NoError(t, n.SendPasswordReset(ctx, "bob@example.com", "Bob", "reset456"))
	require.NoError(t, n.SendTaskReminder(ctx, domain.Task{Email: "bob@example.com", Title: "Deploy"}))

	require.Len(t, m.sent, 3)

	assert.Equal(t, "Activate your Taskboard Account", m.sent[0].Subject)
	assert.Contains(t, m.sent[0].HTML, "https://app.example.com/verify-email/tok123")
	assert.Contains(t, m.sent[0].Text, "10 minutes")

	assert.Equal(t, "Reset your password", m.sent[1].Subject)
	assert.Contains(t, m.sent[1].HTML, "https://app.example.com/reset-password/reset456")
	assert.Contains(t, m.sent[1].Text, "1 hour")

	assert.Equal(t, "Task Reminder", m.sent[2].Subject)
	assert.Equal(t, "bob@example.com", m.sent[2].To)
}

func TestNotifierPropagatesSendErrors(t *testing.T) {
	boom := errors.New("smtp down")
	n := newTestNotifier(t, &recordingMailer{err: boom})

	err := n.SendActivation(context.Background(), "bob@example.com", "Bob", "tok")
	assert.ErrorIs(t, err, boom)
}

func TestFormatTTL(t *testing.T) {
	assert.Equal(t, "1 minute", formatTTL(time.Minute))
	assert.Equal(t, "15 minutes", formatTTL(15*time.Minute))
	assert.Equal(t, "2 hours", formatTTL(2*time.Hour))
	assert.Equal(t, "90 minutes", formatTTL(90*time.Minute))
}
