// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"time"

	"github.com/resendlabs/resend-go"
	"github.com/securepent/securepent-go/internal/domain/lead"
	"github.com/securepent/securepent-go/internal/infrastructure/email/templates"
	"github.com/securepent/securepent-go/pkg/config"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendLeadNotification(contact *lead.Contact) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client      *resend.Client
	fromEmail   string
	fromName    string
	notifyEmail string
}

// NewService creates a new email service client, returning the Service
// interface. Returns an error when notification delivery is not configured;
// callers may fall back to NewNoopService.
func NewService() (Service, error) {
	if config.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is required for email notifications")
	}
	if config.AdminNotifyEmail == "" {
		return nil, fmt.Errorf("ADMIN_NOTIFY_EMAIL is required for email notifications")
	}

	return &ResendClient{
		client:      resend.NewClient(config.ResendAPIKey),
		fromEmail:   config.EmailFrom,
		fromName:    config.EmailFromName,
		notifyEmail: config.AdminNotifyEmail,
	}, nil
}

// SendLeadNotification composes and sends the new-inquiry notification to the
// configured admin address.
func (c *ResendClient) SendLeadNotification(contact *lead.Contact) error {
	subject := fmt.Sprintf("New contact inquiry from %s %s", contact.FirstName, contact.LastName)

	content := templates.GetLeadEmailContent(templates.LeadEmailProps{
		FirstName:  contact.FirstName,
		LastName:   contact.LastName,
		Email:      contact.Email,
		Company:    contact.Company,
		JobTitle:   contact.JobTitle,
		Message:    contact.Message,
		UUID:       contact.UUID,
		ReceivedAt: contact.CreatedAt.UTC().Format(time.RFC1123),
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: subject,
		Content:   content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{c.notifyEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send lead notification via Resend: %w", err)
	}

	return nil
}

// NoopService discards notifications. Used when no Resend credentials are
// configured so contact submissions still succeed.
type NoopService struct{}

// NewNoopService creates an email service that does nothing.
func NewNoopService() Service {
	return &NoopService{}
}

// SendLeadNotification implements Service.
func (s *NoopService) SendLeadNotification(contact *lead.Contact) error {
	return nil
}
