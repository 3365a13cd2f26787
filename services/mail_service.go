package services

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/HSouheill/audiogate_backend/config"
)

// Mailer sends a plain text message to one address
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MailService delivers mail over SMTP
type MailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailService(cfg *config.Config) *MailService {
	return &MailService{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass),
		from:   cfg.FromEmail,
	}
}

func (s *MailService) Send(ctx context.Context, to, subject, body string) error {
	if s.dialer.Username == "" || s.from == "" {
		return fmt.Errorf("missing SMTP configuration")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
