package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer sends plain-text email through one SMTP relay.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer creates a mailer for the relay at addr (host:port). Empty
// credentials mean an unauthenticated relay, the common case for a local
// mail sink in development.
func NewSMTPMailer(addr, from, username, password string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if idx := strings.IndexByte(addr, ':'); idx >= 0 {
			host = addr[:idx]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPMailer{
		addr: addr,
		from: from,
		auth: auth,
	}
}

// Send delivers one message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.from, to, subject, body,
	)

	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}
