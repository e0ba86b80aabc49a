// Package mailer delivers outbound email for the contact form.
// SMTPSender talks to a real SMTP server through go-mail; LogSender writes
// messages to the structured log when no server is configured.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// SMTPConfig locates and authenticates against the SMTP relay.
// Username may be empty for relays that accept unauthenticated mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends messages through an SMTP relay.
type SMTPSender struct {
	cfg     SMTPConfig
	timeout time.Duration
}

// NewSMTPSender returns an SMTPSender for cfg.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, timeout: 15 * time.Second}
}

// Send delivers all msgs over one SMTP session. It fails as a whole if any
// message cannot be built or sent; there is no partial-delivery report.
func (s *SMTPSender) Send(ctx context.Context, msgs ...Message) error {
	out := make([]*mail.Msg, 0, len(msgs))
	for _, m := range msgs {
		msg, err := s.build(m)
		if err != nil {
			return fmt.Errorf("mailer.SMTPSender.Send: %w", err)
		}
		out = append(out, msg)
	}

	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("mailer.SMTPSender.Send: client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, out...); err != nil {
		return fmt.Errorf("mailer.SMTPSender.Send: %w", err)
	}
	return nil
}

func (s *SMTPSender) build(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("from %q: %w", s.cfg.From, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("to %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)
	return msg, nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(s.timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	// 465 is implicit TLS; other ports upgrade with STARTTLS when offered.
	if s.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}

// LogSender records messages in the log instead of sending them.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender returns a LogSender writing to log.
func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs one line per message and never fails.
func (s *LogSender) Send(ctx context.Context, msgs ...Message) error {
	for _, m := range msgs {
		s.log.InfoContext(ctx, "mail not sent: smtp disabled",
			"to", m.To,
			"subject", m.Subject,
			"bytes", len(m.HTML),
		)
	}
	return nil
}
