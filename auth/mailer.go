package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, email, otp string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	ttl    string
}

func NewSMTPMailer(host string, port int, username, password, from string, ttl time.Duration) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		ttl:    describeTTL(ttl),
	}
}

func describeTTL(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return d.String()
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, otp string) error {
	if m == nil || m.dialer.Host == "" || m.from == "" {
		return errors.New("mailer not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your password reset code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your password reset code is: %s\n\nThis code will expire in %s. If you did not request a reset, ignore this email.",
		otp, m.ttl,
	))

	return m.dialer.DialAndSend(msg)
}
