package mail

import (
	"context"
	"testing"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(config.MailConfig{Driver: "log"}, "Taskboard", nil)
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), Message{To: "a@b.com", Subject: "s", Text: "t"}))

	m, err = NewMailer(config.MailConfig{Driver: "smtp", Host: "smtp.example.com", Port: 587, From: "no-reply@example.com"}, "Taskboard", nil)
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = NewMailer(config.MailConfig{Driver: "smtp"}, "Taskboard", nil)
	assert.Error(t, err, "smtp without host")

	_, err = NewMailer(config.MailConfig{Driver: "fax"}, "Taskboard", nil)
	assert.Error(t, err)
}

func TestSMTPMailerBuild(t *testing.T) {
	m, err := NewSMTPMailer(config.MailConfig{
		Host:     "smtp.example.com",
		Port:     465,
		Username: "user",
		Password: "pass",
		From:     "no-reply@example.com",
	}, "Taskboard")
	require.NoError(t, err)

	msg, err := m.build(Message{To: "bob@example.com", Subject: "Task Reminder", Text: "plain", HTML: "<p>html</p>"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Task Reminder"}, msg.GetGenHeader("Subject"))
	to := msg.GetToString()
	require.Len(t, to, 1)
	assert.Contains(t, to[0], "bob@example.com")
	from := msg.GetFromString()
	require.Len(t, from, 1)
	assert.Contains(t, from[0], "Taskboard")

	_, err = m.build(Message{To: "not an address"})
	assert.Error(t, err)
}
