package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// Notifier renders and sends the application's emails.
type Notifier struct {
	catalog         *Catalog
	mailer          Mailer
	appName         string
	clientURL       string
	activationTTL   time.Duration
	resetTTL        time.Duration
	reminderMinutes int
}

// NotifierConfig carries the values interpolated into email bodies.
type NotifierConfig struct {
	AppName         string
	ClientURL       string
	ActivationTTL   time.Duration
	ResetTTL        time.Duration
	ReminderMinutes int
}

// NewNotifier creates a Notifier.
func NewNotifier(catalog *Catalog, mailer Mailer, cfg NotifierConfig) *Notifier {
	return &Notifier{
		catalog:         catalog,
		mailer:          mailer,
		appName:         cfg.AppName,
		clientURL:       strings.TrimRight(cfg.ClientURL, "/"),
		activationTTL:   cfg.ActivationTTL,
		resetTTL:        cfg.ResetTTL,
		reminderMinutes: cfg.ReminderMinutes,
	}
}

type linkData struct {
	AppName string
	Name    string
	Link    string
	Expiry  string
}

type reminderData struct {
	Title   string
	Minutes int
}

// SendActivation emails the account activation link.
func (n *Notifier) SendActivation(ctx context.Context, to, name, token string) error {
	return n.send(ctx, TemplateActivation, to, linkData{
		AppName: n.appName,
		Name:    name,
		Link:    fmt.Sprintf("%s/verify-email/%s", n.clientURL, token),
		Expiry:  formatTTL(n.activationTTL),
	})
}

// SendPasswordReset emails the password reset link.
func (n *Notifier) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return n.send(ctx, TemplatePasswordReset, to, linkData{
		AppName: n.appName,
		Name:    name,
		Link:    fmt.Sprintf("%s/reset-password/%s", n.clientURL, token),
		Expiry:  formatTTL(n.resetTTL),
	})
}

// SendTaskReminder emails the assignee that task is about to fall due.
func (n *Notifier) SendTaskReminder(ctx context.Context, task domain.Task) error {
	return n.send(ctx, TemplateTaskReminder, task.Email, reminderData{
		Title:   task.Title,
		Minutes: n.reminderMinutes,
	})
}

func (n *Notifier) send(ctx context.Context, template, to string, data any) error {
	msg, err := n.catalog.Render(template, to, data)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, msg)
}

// formatTTL renders a lifetime such as "10 minutes" or "1 hour".
func formatTTL(d time.Duration) string {
	unit, n := "minute", int(d.Minutes())
	if n >= 60 && n%60 == 0 {
		unit, n = "hour", n/60
	}
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", n, unit)
}
