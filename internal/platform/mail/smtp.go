package mail

import (
	"context"
	"fmt"

	"github.com/phrazzld/taskboard-api/internal/config"
	gomail "github.com/wneessen/go-mail"
)

// implicitTLSPort is the SMTPS port, which expects TLS from the first byte.
const implicitTLSPort = 465

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	host     string
	opts     []gomail.Option
	fromName string
	fromAddr string
}

// NewSMTPMailer creates an SMTPMailer from the mail settings. fromName is
// shown as the sender's display name.
func NewSMTPMailer(cfg config.MailConfig, fromName string) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}

	opts := []gomail.Option{gomail.WithPort(cfg.Port)}
	if cfg.Port == implicitTLSPort {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	return &SMTPMailer{
		host:     cfg.Host,
		opts:     opts,
		fromName: fromName,
		fromAddr: cfg.From,
	}, nil
}

// Send implements Mailer. Each call opens its own connection.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	email, err := m.build(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.host, m.opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) build(msg Message) (*gomail.Msg, error) {
	email := gomail.NewMsg()
	if err := email.FromFormat(m.fromName, m.fromAddr); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := email.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	email.Subject(msg.Subject)
	email.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		email.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}
	return email, nil
}
