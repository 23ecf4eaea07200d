package services

import (
	"errors"
	"testing"
	"time"

	"github.com/securepent/securepent-go/internal/domain/admin"
	"github.com/securepent/securepent-go/internal/domain/lead"
	"github.com/securepent/securepent-go/internal/infrastructure/security"
)

// fakeLeadRepo is an in-memory lead.Repository.
type fakeLeadRepo struct {
	contacts []*lead.Contact
	nextID   int64
}

func (r *fakeLeadRepo) Store(contact *lead.Contact) error {
	r.nextID++
	contact.ID = r.nextID
	copied := *contact
	r.contacts = append(r.contacts, &copied)
	return nil
}

func (r *fakeLeadRepo) FindByUUID(uuid string) (*lead.Contact, error) {
	for _, c := range r.contacts {
		if c.UUID == uuid {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeLeadRepo) List(status lead.Status, limit, offset int) ([]*lead.Contact, int, error) {
	var matched []*lead.Contact
	for _, c := range r.contacts {
		if status == "" || c.Status == status {
			matched = append(matched, c)
		}
	}
	return matched, len(matched), nil
}

func (r *fakeLeadRepo) UpdateStatus(uuid string, status lead.Status) (*lead.Contact, error) {
	for _, c := range r.contacts {
		if c.UUID == uuid {
			c.Status = status
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

// fakeEmailService records notifications on a channel so tests can wait for
// the async send.
type fakeEmailService struct {
	sent chan string
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{sent: make(chan string, 8)}
}

func (s *fakeEmailService) SendLeadNotification(contact *lead.Contact) error {
	s.sent <- contact.UUID
	return nil
}

func newTestContactService(t *testing.T) (*ContactService, *fakeLeadRepo, *fakeEmailService) {
	t.Helper()
	svc, repo, emails, _ := newTestContactServiceWithAudit(t)
	return svc, repo, emails
}

func newTestContactServiceWithAudit(t *testing.T) (*ContactService, *fakeLeadRepo, *fakeEmailService, *fakeAuditRepo) {
	t.Helper()
	repo := &fakeLeadRepo{}
	emails := newFakeEmailService()
	audit := &fakeAuditRepo{}
	logger := testLogger(t)
	svc := NewContactService(repo, emails, NewAuditService(audit, logger), logger)
	return svc, repo, emails, audit
}

func validSubmission() security.ContactFormInput {
	return security.ContactFormInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Company:   "Acme",
		Message:   "We would like a web application penetration test.",
	}
}

func TestSubmitStoresContactAndNotifies(t *testing.T) {
	svc, repo, emails := newTestContactService(t)

	contact, err := svc.Submit(validSubmission(), SubmissionMeta{
		IPAddress: "203.0.113.9",
		UserAgent: "Mozilla/5.0",
		Referrer:  "https://example.com/pricing",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if contact.UUID == "" || !security.ValidUUID(contact.UUID) {
		t.Errorf("expected a valid UUID, got %q", contact.UUID)
	}
	if contact.Status != lead.StatusNew {
		t.Errorf("expected status new, got %q", contact.Status)
	}
	if len(repo.contacts) != 1 {
		t.Fatalf("expected 1 stored contact, got %d", len(repo.contacts))
	}

	select {
	case uuid := <-emails.sent:
		if uuid != contact.UUID {
			t.Errorf("notification for wrong contact: %q", uuid)
		}
	case <-time.After(2 * time.Second):
		t.Error("expected a lead notification")
	}
}

func TestSubmitRejectsInvalidForm(t *testing.T) {
	svc, repo, _ := newTestContactService(t)

	bad := validSubmission()
	bad.Message = "too short"

	_, err := svc.Submit(bad, SubmissionMeta{})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Errors) == 0 {
		t.Error("expected field errors")
	}
	if len(repo.contacts) != 0 {
		t.Error("rejected submission must not be stored")
	}
}

func TestSubmitAuditsInjectionPatterns(t *testing.T) {
	svc, repo, _, audit := newTestContactServiceWithAudit(t)

	sneaky := validSubmission()
	sneaky.Message = "<script>steal()</script> Please review our infrastructure setup."

	if _, err := svc.Submit(sneaky, SubmissionMeta{IPAddress: "203.0.113.9", UserAgent: "Mozilla/5.0"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(repo.contacts) != 1 {
		t.Fatal("advisory detection must not block the submission")
	}

	var entry *admin.AuditEntry
	for _, e := range audit.entries {
		if e.Action == "injection_pattern_detected" {
			entry = e
			break
		}
	}
	if entry == nil {
		t.Fatalf("expected an injection_pattern_detected audit entry, got actions %v", audit.actions())
	}
	if entry.Severity != admin.SeverityWarning {
		t.Errorf("expected warning severity, got %q", entry.Severity)
	}
	if entry.IPAddress != "203.0.113.9" {
		t.Errorf("expected client IP recorded, got %q", entry.IPAddress)
	}
}

func TestSubmitDuplicatesGetDistinctIDs(t *testing.T) {
	svc, _, _ := newTestContactService(t)

	first, err := svc.Submit(validSubmission(), SubmissionMeta{})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	second, err := svc.Submit(validSubmission(), SubmissionMeta{})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if first.UUID == second.UUID {
		t.Error("identical submissions must get distinct identifiers")
	}
}

func TestSubmitSanitizesMetadata(t *testing.T) {
	svc, repo, _ := newTestContactService(t)

	_, err := svc.Submit(validSubmission(), SubmissionMeta{
		IPAddress: "not-an-ip",
		Referrer:  "javascript:alert(1)",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	stored := repo.contacts[0]
	if stored.IPAddress != "" {
		t.Errorf("expected invalid IP dropped, got %q", stored.IPAddress)
	}
	if stored.Referrer != "" {
		t.Errorf("expected non-http referrer dropped, got %q", stored.Referrer)
	}
}

func TestStatusLookup(t *testing.T) {
	svc, _, _ := newTestContactService(t)

	contact, err := svc.Submit(validSubmission(), SubmissionMeta{})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	found, err := svc.Status(contact.UUID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if found.Status != lead.StatusNew {
		t.Errorf("expected status new, got %q", found.Status)
	}

	if _, err := svc.Status("not-a-uuid"); !errors.Is(err, ErrInvalidUUID) {
		t.Errorf("expected ErrInvalidUUID, got %v", err)
	}
	if _, err := svc.Status(security.GenerateUUID()); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, _, _ := newTestContactService(t)

	contact, err := svc.Submit(validSubmission(), SubmissionMeta{})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	updated, err := svc.UpdateStatus(contact.UUID, "read")
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != lead.StatusRead {
		t.Errorf("expected status read, got %q", updated.Status)
	}

	if _, err := svc.UpdateStatus(contact.UUID, "bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateStatus(security.GenerateUUID(), "read"); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _, _ := newTestContactService(t)

	a, _ := svc.Submit(validSubmission(), SubmissionMeta{})
	svc.Submit(validSubmission(), SubmissionMeta{})
	svc.UpdateStatus(a.UUID, "archived")

	archived, total, err := svc.List("archived", 50, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(archived) != 1 {
		t.Errorf("expected 1 archived contact, got %d", total)
	}

	if _, _, err := svc.List("bogus", 50, 0); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}
