package notify

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/sakshiot4/UrbanWatch-plus/internal/logger"
)

// SMTPSender delivers messages over plain SMTP with optional auth.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender creates an SMTP-backed sender.
func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers one message.
func (s *SMTPSender) Send(m Message) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.from, m.To, m.Subject, m.Body,
	))

	addr := s.host + ":" + s.port

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{m.To}, msg); err != nil {
		return fmt.Errorf("smtp: send to %s: %w", m.To, err)
	}
	return nil
}

// LogSender substitutes email delivery in development: it writes the alert
// to the application log.
type LogSender struct{}

// Send logs the message instead of delivering it.
func (s *LogSender) Send(m Message) error {
	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"recipient": m.To,
			"subject":   m.Subject,
		}).Info("notify: (log sender) " + m.Body)
	}
	return nil
}
