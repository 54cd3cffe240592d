package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

const fromName = "Inkwell"

// Mailer delivers one-time codes. A send failure aborts the request that
// triggered it; nothing is retried.
type Mailer interface {
	SendOTP(ctx context.Context, to, name, code string) error
}

// SMTPMailer sends over plain SMTP with STARTTLS.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
	}
}

func (m *SMTPMailer) SendOTP(_ context.Context, to, name, code string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your OTP Code - Inkwell")
	msg.SetBody("text/html", otpBody(name, code))

	return m.dialer.DialAndSend(msg)
}

func otpBody(name, code string) string {
	greeting := "Hi"

	if name != "" {
		greeting = "Hi " + name
	}

	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #337DFF; text-align: center;">Welcome to Inkwell!</h2>
  <p>%s,</p>
  <p>Please use the following code to verify your email address:</p>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; text-align: center; margin: 20px 0;">
    <span style="font-size: 32px; font-weight: bold; color: #337DFF; letter-spacing: 8px;">%s</span>
  </div>
  <p style="color: #666;">This code expires in 10 minutes.</p>
  <p>If you didn't request this, please ignore this email.</p>
</div>`, greeting, code)
}
