package mailer

import (
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"

	"cesms_backend/internals/configs"
)

// Sender delivers transactional mail. The Resend implementation is used when
// an API key is configured; otherwise a log-only sender keeps local
// development flowing (the code is printed to the server log).
type Sender interface {
	SendVerificationCode(toEmail, toName, code string) error
	SendPasswordResetCode(toEmail, toName, code string) error
}

// New picks the sender for the current environment.
func New() Sender {
	if configs.ResendAPIKey == "" {
		log.Println("[WARNING] RESEND_API_KEY not set, using log-only mailer")
		return &logSender{}
	}
	return &resendSender{client: resend.NewClient(configs.ResendAPIKey)}
}

type resendSender struct {
	client *resend.Client
}

func (s *resendSender) send(toEmail, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", configs.MailFromName, configs.MailFromAddress),
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	}
	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("send email to %s: %w", toEmail, err)
	}
	return nil
}

func (s *resendSender) SendVerificationCode(toEmail, toName, code string) error {
	html := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:480px;margin:0 auto">
			<h2>Verify your email</h2>
			<p>Hi %s,</p>
			<p>Your CESMS verification code is:</p>
			<p style="font-size:28px;font-weight:bold;letter-spacing:6px">%s</p>
			<p>This code expires in 10 minutes. If you did not sign up, you can ignore this email.</p>
		</div>`, toName, code)
	return s.send(toEmail, "Your CESMS verification code", html)
}

func (s *resendSender) SendPasswordResetCode(toEmail, toName, code string) error {
	html := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:480px;margin:0 auto">
			<h2>Password reset</h2>
			<p>Hi %s,</p>
			<p>Use this code to reset your CESMS password:</p>
			<p style="font-size:28px;font-weight:bold;letter-spacing:6px">%s</p>
			<p>This code expires in 10 minutes. If you did not request a reset, you can ignore this email.</p>
		</div>`, toName, code)
	return s.send(toEmail, "Your CESMS password reset code", html)
}

type logSender struct{}

func (s *logSender) SendVerificationCode(toEmail, _, code string) error {
	log.Printf("[INFO] (dev mailer) verification code for %s: %s", toEmail, code)
	return nil
}

func (s *logSender) SendPasswordResetCode(toEmail, _, code string) error {
	log.Printf("[INFO] (dev mailer) password reset code for %s: %s", toEmail, code)
	return nil
}
