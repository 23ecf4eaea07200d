// Package lead defines the contact-form lead entity and its repository
// interface. The repository abstracts persistence details so the application
// layer stays decoupled from the database.
package lead

import "time"

// Status is the lifecycle state of a stored contact submission.
type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusArchived Status = "archived"
)

// ValidStatus reports whether s is one of the fixed lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied, StatusArchived:
		return true
	}
	return false
}

// Contact represents a stored contact-form submission awaiting follow-up.
// Rows are created on form submit and mutated only by status transitions;
// they are never hard-deleted.
type Contact struct {
	ID         int64      `json:"-"`
	UUID       string     `json:"id"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Company    string     `json:"company,omitempty"`
	JobTitle   string     `json:"jobTitle,omitempty"`
	Message    string     `json:"message"`
	IPAddress  string     `json:"ipAddress,omitempty"`
	UserAgent  string     `json:"userAgent,omitempty"`
	Referrer   string     `json:"referrer,omitempty"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
}

// Repository defines the operations for persisting Contact entities.
type Repository interface {
	Store(contact *Contact) error
	FindByUUID(uuid string) (*Contact, error)
	List(status Status, limit, offset int) ([]*Contact, int, error)
	UpdateStatus(uuid string, status Status) (*Contact, error)
}
