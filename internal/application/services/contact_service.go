package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/securepent/securepent-go/internal/domain/admin"
	"github.com/securepent/securepent-go/internal/domain/lead"
	"github.com/securepent/securepent-go/internal/infrastructure/email"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/security"
)

// Contact errors surfaced to handlers.
var (
	ErrContactNotFound = errors.New("contact not found")
	ErrInvalidStatus   = errors.New("invalid contact status")
	ErrInvalidUUID     = errors.New("invalid contact identifier")
)

// ValidationError carries field-level validation messages from a rejected
// submission.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact validation failed: %d field error(s)", len(e.Errors))
}

// ContactService handles contact form submissions and the admin lead
// workflow.
type ContactService struct {
	repo   lead.Repository
	email  email.Service
	audit  *AuditService
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(repo lead.Repository, emailService email.Service, audit *AuditService, logger *logging.ChanneledLogger) *ContactService {
	return &ContactService{
		repo:   repo,
		email:  emailService,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// SubmissionMeta carries the request metadata attached to a submission.
type SubmissionMeta struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// Submit sanitizes and validates a contact form payload, persists it and
// kicks off the admin notification email. The notification is asynchronous;
// a delivery failure never fails the submission.
func (s *ContactService) Submit(input security.ContactFormInput, meta SubmissionMeta) (*lead.Contact, error) {
	result := security.ValidateContactForm(input)
	for _, warning := range result.Warnings {
		s.logger.Contact().Warn("Suspicious contact input", "warning", warning, "ip", meta.IPAddress)
		s.audit.Record(AuditEvent{
			Action:     "injection_pattern_detected",
			EntityType: "contact",
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
			Details:    warning,
			Severity:   admin.SeverityWarning,
		})
	}
	if !result.IsValid() {
		s.logger.Contact().Info("Contact submission rejected", "errors", result.Errors, "ip", meta.IPAddress)
		return nil, &ValidationError{Errors: result.Errors}
	}

	contact := &lead.Contact{
		UUID:      security.GenerateUUID(),
		FirstName: result.Sanitized.FirstName,
		LastName:  result.Sanitized.LastName,
		Email:     result.Sanitized.Email,
		Company:   result.Sanitized.Company,
		JobTitle:  result.Sanitized.JobTitle,
		Message:   result.Sanitized.Message,
		IPAddress: security.SanitizeIP(meta.IPAddress),
		UserAgent: security.SanitizeString(meta.UserAgent, security.SanitizeOptions{MaxLength: 512}),
		Referrer:  security.SanitizeURL(meta.Referrer),
		Status:    lead.StatusNew,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Store(contact); err != nil {
		return nil, fmt.Errorf("failed to persist contact submission: %w", err)
	}

	s.logger.Contact().Info("Contact submission stored", "uuid", contact.UUID, "email", contact.Email)

	go func(c lead.Contact) {
		if err := s.email.SendLeadNotification(&c); err != nil {
			s.logger.Email().Error("Lead notification failed", "error", err.Error(), "uuid", c.UUID)
			return
		}
		s.logger.Email().Info("Lead notification sent", "uuid", c.UUID)
	}(*contact)

	return contact, nil
}

// Status returns the lifecycle status of a submission by its public UUID.
func (s *ContactService) Status(uuid string) (*lead.Contact, error) {
	if !security.ValidUUID(uuid) {
		return nil, ErrInvalidUUID
	}

	contact, err := s.repo.FindByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	return contact, nil
}

// List returns a page of contacts for the admin dashboard.
func (s *ContactService) List(status string, limit, offset int) ([]*lead.Contact, int, error) {
	filter := lead.Status(status)
	if status != "" && !lead.ValidStatus(filter) {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(filter, limit, offset)
}

// UpdateStatus transitions a contact to a new lifecycle state.
func (s *ContactService) UpdateStatus(uuid, status string) (*lead.Contact, error) {
	if !security.ValidUUID(uuid) {
		return nil, ErrInvalidUUID
	}
	newStatus := lead.Status(status)
	if !lead.ValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	contact, err := s.repo.UpdateStatus(uuid, newStatus)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}

	s.logger.Contact().Info("Contact status updated", "uuid", uuid, "status", status)
	return contact, nil
}
