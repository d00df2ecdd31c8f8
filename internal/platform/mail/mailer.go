package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/redact"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of delivering them. It is
// selected with the "log" mail driver for local development.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer. If logger is nil, a default logger will be used.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With(slog.String("component", "log_mailer"))}
}

// Send implements Mailer.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "email not delivered (log driver)",
		slog.String("to", redact.String(msg.To)),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Text))
	return nil
}

// NewMailer selects the transport named by cfg.Driver.
func NewMailer(cfg config.MailConfig, appName string, logger *slog.Logger) (Mailer, error) {
	switch cfg.Driver {
	case "log":
		return NewLogMailer(logger), nil
	case "smtp":
		return NewSMTPMailer(cfg, appName)
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}
