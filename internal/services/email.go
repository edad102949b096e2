package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type EmailService struct {
	host        string
	port        string
	user        string
	pass        string
	from        string
	frontendURL string
	devMode     bool
}

func NewEmailService(host, port, user, pass, from, frontendURL string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:        host,
		port:        port,
		user:        user,
		pass:        pass,
		from:        from,
		frontendURL: frontendURL,
		devMode:     devMode,
	}
}

func (s *EmailService) SendPasswordResetEmail(to, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)

	subject := "Reset your password"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; padding: 32px;">
    <h2 style="margin: 0 0 16px; color: #1e293b;">Reset Your Password</h2>
    <p style="color: #64748b; font-size: 14px; line-height: 1.6;">
      We received a request to reset your password. Click the button below to choose a new one.
      If you did not make this request you can ignore this email.
    </p>
    <a href="%s" style="display: inline-block; background: #2563eb; color: white; text-decoration: none; padding: 12px 32px; border-radius: 8px; font-weight: 600; font-size: 14px;">
      Reset Password
    </a>
    <p style="color: #94a3b8; font-size: 12px; margin: 24px 0 0;">
      If the button doesn't work, copy and paste this link:<br>
      <a href="%s" style="color: #2563eb;">%s</a>
    </p>
  </div>
</body>
</html>`, resetURL, resetURL, resetURL)

	return s.send(to, subject, body)
}

func (s *EmailService) SendCertificateEmail(to, fullName, courseTitle string) error {
	subject := fmt.Sprintf("Your certificate for %q is ready", courseTitle)
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; padding: 32px;">
    <h2 style="margin: 0 0 16px; color: #1e293b;">Congratulations, %s! 🎉</h2>
    <p style="color: #64748b; font-size: 14px; line-height: 1.6;">
      You completed every video in <strong>%s</strong> and earned your certificate.
      You can view it in your certificates page.
    </p>
    <a href="%s/certificates" style="display: inline-block; background: #16a34a; color: white; text-decoration: none; padding: 12px 32px; border-radius: 8px; font-weight: 600; font-size: 14px;">
      View Certificate
    </a>
  </div>
</body>
</html>`, fullName, courseTitle, s.frontendURL)

	return s.send(to, subject, body)
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	if s.devMode {
		log.Printf("─── EMAIL (dev mode) ───\nTo: %s\nSubject: %s\n%s\n────────────────────────", to, subject, htmlBody)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"",
		htmlBody,
	}, "\r\n")

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := s.host + ":" + s.port

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
