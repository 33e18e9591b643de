// internal/app/system/mailer/mailer.go

// Package mailer delivers email over SMTP. The notify package sits on top
// of it; nothing in this package knows about coordinators.
package mailer

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Email is one outbound message with both plain-text and HTML bodies.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers an Email. Satisfied by Mailer; tests substitute a fake.
type Sender interface {
	Send(e Email) error
}

// Mailer sends email through a configured SMTP relay.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	log      *zap.Logger
}

// New constructs a Mailer for the given SMTP relay.
func New(host string, port int, user, pass, from, fromName string, logger *zap.Logger) *Mailer {
	return &Mailer{
		dialer:   gomail.NewDialer(host, port, user, pass),
		from:     from,
		fromName: fromName,
		log:      logger,
	}
}

// Send delivers one message. A fresh connection is dialed per message;
// volume here is a handful of workflow notifications, not bulk mail.
func (m *Mailer) Send(e Email) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", e.To)
	msg.SetHeader("Subject", e.Subject)
	msg.SetBody("text/plain", e.TextBody)
	if e.HTMLBody != "" {
		msg.AddAlternative("text/html", e.HTMLBody)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("smtp send failed", zap.String("to", e.To), zap.Error(err))
		return err
	}
	return nil
}
