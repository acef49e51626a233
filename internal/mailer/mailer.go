// Package mailer sends best-effort transactional notifications with the
// generated PDF attached. Failures are logged and never surfaced to the
// request that triggered them.
package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/config"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/storage"
)

// Notifier is what handlers depend on; satisfied by Mailer and by test fakes.
type Notifier interface {
	NotifyArtifact(ctx context.Context, recipients []string, title, artifactKey string)
}

type Mailer struct {
	client *mail.Client
	from   string
	store  storage.ObjectStore
	log    zerolog.Logger
}

func New(cfg config.SMTPConfig, store storage.ObjectStore, log zerolog.Logger) (*Mailer, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}
	return &Mailer{client: client, from: cfg.From, store: store, log: log}, nil
}

// NotifyArtifact fetches the just-uploaded PDF from storage and mails it to
// the recipients. Fire and forget: callers do not learn about failures.
func (m *Mailer) NotifyArtifact(ctx context.Context, recipients []string, title, artifactKey string) {
	if len(recipients) == 0 {
		return
	}

	body, err := m.store.Get(ctx, artifactKey)
	if err != nil {
		m.log.Error().Err(err).Str("key", artifactKey).Msg("mail: fetch artifact failed")
		return
	}
	defer body.Close()

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		m.log.Error().Err(err).Msg("mail: bad from address")
		return
	}
	if err := msg.To(recipients...); err != nil {
		m.log.Error().Err(err).Strs("to", recipients).Msg("mail: bad recipient")
		return
	}
	msg.Subject(fmt.Sprintf("%s document ready", title))
	msg.SetBodyString(mail.TypeTextHTML,
		fmt.Sprintf("<p>A new <strong>%s</strong> document has been generated and is attached.</p>", title))
	if err := msg.AttachReader("document.pdf", body); err != nil {
		m.log.Error().Err(err).Msg("mail: attach failed")
		return
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.log.Error().Err(err).Strs("to", recipients).Msg("mail: send failed")
		return
	}
	m.log.Info().Strs("to", recipients).Str("key", artifactKey).Msg("mail: sent")
}
