// Package services provides application-level orchestration services
package services

import (
	"time"

	"github.com/securepent/securepent-go/internal/domain/admin"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/security"
)

// AuditService records security-relevant admin actions. Writes are best
// effort: a failed audit insert is logged but never fails the action that
// triggered it.
type AuditService struct {
	repo   admin.AuditRepository
	logger *logging.ChanneledLogger
}

// NewAuditService creates a new audit service
func NewAuditService(repo admin.AuditRepository, logger *logging.ChanneledLogger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

// AuditEvent describes one action to record.
type AuditEvent struct {
	AdminID    *int64
	Action     string
	EntityType string
	EntityID   string
	IPAddress  string
	UserAgent  string
	Details    string
	Severity   string
}

// Record appends an audit entry. Never returns an error.
func (s *AuditService) Record(event AuditEvent) {
	severity := event.Severity
	if severity == "" {
		severity = admin.SeverityInfo
	}

	entry := &admin.AuditEntry{
		ID:         security.GenerateULID(),
		AdminID:    event.AdminID,
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		IPAddress:  event.IPAddress,
		UserAgent:  event.UserAgent,
		Details:    event.Details,
		Severity:   severity,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Store(entry); err != nil {
		s.logger.Audit().Error("Failed to store audit entry", "error", err.Error(), "action", event.Action)
		return
	}

	s.logger.Audit().Info("Audit entry recorded", "action", event.Action, "severity", severity, "adminId", event.AdminID)
}

// List returns audit entries matching the filter.
func (s *AuditService) List(filter admin.AuditFilter) ([]*admin.AuditEntry, error) {
	return s.repo.List(filter)
}
