package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/smtp"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService defines the interface for sending emails
type EmailService interface {
	SendInvitation(ctx context.Context, to, tenantName, invitationLink string) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg        config.SMTPConfig
	templates  *template.Template
	send       sendFunc
	retryDelay time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	return newEmailService(cfg, smtp.SendMail, time.Second)
}

func newEmailService(cfg config.SMTPConfig, send sendFunc, retryDelay time.Duration) (*emailServiceImpl, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:        cfg,
		templates:  tmpl,
		send:       send,
		retryDelay: retryDelay,
	}, nil
}

type invitationEmailData struct {
	Email          string
	TenantName     string
	InvitationLink string
}

// SendInvitation sends an invitation email to the invited address
func (s *emailServiceImpl) SendInvitation(ctx context.Context, to, tenantName, invitationLink string) error {
	data := invitationEmailData{
		Email:          to,
		TenantName:     tenantName,
		InvitationLink: invitationLink,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "invitation.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, fmt.Sprintf("Invitation to join %s", tenantName), body.String())
}

func (s *emailServiceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.WarnContext(ctx, "SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	// tenant names are free text; Q-encoding keeps CR/LF out of the header block
	headers := fmt.Sprintf("From: %s <%s>\r\n", mime.QEncoding.Encode("UTF-8", s.cfg.FromName), from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	// Attempts(0) would retry forever
	maxAttempts := max(s.cfg.MaxRetries, 1)

	attempt := 0
	err := retry.Do(
		func() error {
			attempt++
			return s.send(addr, auth, from, []string{to}, message)
		},
		retry.Context(ctx),
		retry.Attempts(uint(maxAttempts)),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.ErrorContext(ctx, "Failed to send email",
				"to", to,
				"subject", subject,
				"attempt", n+1,
				"max_retries", maxAttempts,
				"error", err,
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to send email after %d attempts: %w", attempt, err)
	}

	slog.InfoContext(ctx, "Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
	return nil
}
