package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/Dosada05/talent-platform/config"
)

// Notifier is the outbound notification contract. Delivery failures are an
// infrastructure concern: callers log them and never roll back state on them.
type Notifier interface {
	SendVerificationEmail(to, username, tokenID string) error
	SendConsentRequestEmail(to, parentName, playerName, token string) error
	SendGuardianWelcomeEmail(to, parentName string) error
}

// EmailService delivers notifications over SMTP.
type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

var verificationEmailTemplate = template.Must(template.New("verification").Parse(`
<p>Hi {{.Username}},</p>
<p>Welcome to the platform. Please confirm your email address by clicking the link below:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>The link is valid for 7 days. If you did not register, you can ignore this email.</p>
<p>Token: {{.Token}}</p>
`))

var consentRequestEmailTemplate = template.Must(template.New("consent").Parse(`
<p>Dear {{.ParentName}},</p>
<p>Your child {{.PlayerName}} has registered as a player. Please review and provide your consent by clicking the link below:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not expect this email, you can ignore it.</p>
<p>Request token: {{.Token}}</p>
`))

var guardianWelcomeEmailTemplate = template.Must(template.New("guardian").Parse(`
<p>Dear {{.ParentName}},</p>
<p>An account has been created for you so you can follow your child's registration.</p>
<p>Use the password reset option on the login page to choose your password.</p>
`))

func (s *EmailService) SendVerificationEmail(to, username, tokenID string) error {
	link := fmt.Sprintf("%s/verify-email/%s", s.cfg.PublicBaseURL, tokenID)
	body, err := renderEmailBody(verificationEmailTemplate, struct {
		Username, Link, Token string
	}{username, link, tokenID})
	if err != nil {
		return err
	}
	return s.sendEmail([]string{to}, "Confirm your email address", body)
}

func (s *EmailService) SendConsentRequestEmail(to, parentName, playerName, token string) error {
	link := fmt.Sprintf("%s/consent/%s", s.cfg.PublicBaseURL, token)
	body, err := renderEmailBody(consentRequestEmailTemplate, struct {
		ParentName, PlayerName, Link, Token string
	}{parentName, playerName, link, token})
	if err != nil {
		return err
	}
	return s.sendEmail([]string{to}, fmt.Sprintf("Parental Consent Request for %s", playerName), body)
}

func (s *EmailService) SendGuardianWelcomeEmail(to, parentName string) error {
	body, err := renderEmailBody(guardianWelcomeEmailTemplate, struct {
		ParentName string
	}{parentName})
	if err != nil {
		return err
	}
	return s.sendEmail([]string{to}, "Your guardian account", body)
}

func renderEmailBody(t *template.Template, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return body.String(), nil
}

func (s *EmailService) sendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Implicit TLS
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial failed: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("failed to create smtp client: %w", err)
		}
	} else {
		// STARTTLS (usually port 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial failed: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls failed: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO failed: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write smtp message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close smtp data writer: %w", err)
	}

	return nil
}
