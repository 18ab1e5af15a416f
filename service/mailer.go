package service

import (
	"github.com/AZREAL-08/contractiq-backend/config"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers reminder emails through an SMTP relay with STARTTLS
// and plain authentication.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg *config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.SenderEmail, cfg.SenderPassword),
		from:   cfg.SenderEmail,
	}
}

// Send delivers one HTML message. The connection is dialed per message; the
// dispatcher sends a handful of reminders per sweep at most.
func (s *SMTPSender) Send(recipient, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}
