package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"candidate-portal/config"
)

var ErrNotConfigured = errors.New("email service is not configured")

// EmailService sends transactional mail through the Brevo SMTP relay.
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
}

// WelcomeEmailData is rendered into the waitlist confirmation.
type WelcomeEmailData struct {
	Name      string
	Email     string
	Candidate bool
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		toEmail:   cfg.ContactEmailTo,
		send:      smtp.SendMail,
	}
}

var (
	contactTmpl = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>New Contact Form Submission</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <h2>New Contact Form Submission</h2>
  <p><strong>From:</strong> {{.SenderName}} ({{.SenderEmail}})</p>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <div style="border-left: 4px solid #4f46e5; padding: 10px 15px; background: #f9f9f9;">{{.Message}}</div>
</body>
</html>`))

	welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>You're on the list</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <h2>Hi{{if .Name}} {{.Name}}{{end}}, you're on the waitlist!</h2>
  {{if .Candidate}}
  <p>We'll let you know as soon as assessments and job matches open up for candidates.</p>
  {{else}}
  <p>We'll reach out when recruiter accounts and job-fair listings are available.</p>
  {{end}}
</body>
</html>`))
)

// SendContactEmail sends a contact form email to the configured recipient
func (s *EmailService) SendContactEmail(data ContactEmailData) error {
	if !s.IsConfigured() || s.toEmail == "" {
		return ErrNotConfigured
	}
	var body bytes.Buffer
	if err := contactTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}
	return s.deliver(s.toEmail, data.SenderEmail, "Contact Form: "+data.Subject, body.Bytes())
}

// SendWaitlistWelcome confirms a waitlist signup to the subscriber.
func (s *EmailService) SendWaitlistWelcome(data WelcomeEmailData) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	var body bytes.Buffer
	if err := welcomeTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}
	return s.deliver(data.Email, "", "You're on the waitlist", body.Bytes())
}

func (s *EmailService) deliver(to, replyTo, subject string, body []byte) error {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.fromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	if replyTo != "" {
		fmt.Fprintf(&msg, "Reply-To: %s\r\n", replyTo)
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.Write(body)

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != "" && s.fromEmail != ""
}
