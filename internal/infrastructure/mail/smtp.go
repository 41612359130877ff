package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/synergysphere/auth-api/internal/config"
	"github.com/synergysphere/auth-api/internal/domain"
)

// SMTPSender delivers mail over plain SMTP. Works against MailHog without
// credentials and against regular servers with PLAIN auth.
type SMTPSender struct {
	host     string
	port     string
	from     string
	username string
	password string
	otpTTL   time.Duration
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		otpTTL:   cfg.OTPTTL,
	}
}

func (s *SMTPSender) SendOTP(_ context.Context, to, code string, purpose domain.OTPPurpose) error {
	return s.send(to, otpSubject(purpose), otpBody(code, purpose, s.otpTTL))
}

func (s *SMTPSender) SendWelcome(_ context.Context, to, firstName string) error {
	return s.send(to, "Welcome to SynergySphere!", welcomeBody(firstName))
}

func (s *SMTPSender) SendTest(_ context.Context, to string) error {
	return s.send(to, "SynergySphere Email Test", testBody())
}

func (s *SMTPSender) send(to, subject, htmlBody string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
