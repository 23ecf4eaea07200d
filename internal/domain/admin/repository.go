// Package admin defines the admin user and audit-log entities together with
// their repository interfaces.
package admin

import "time"

// Roles assignable to admin users.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// User represents an admin credential with brute-force lockout state.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	PasswordHash   string     `json:"-"` // Never serialize password hash
	Email          *string    `json:"email,omitempty"`
	Role           string     `json:"role"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	FailedAttempts int        `json:"-"`
	LockedUntil    *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Locked reports whether the account is locked out at the given instant.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// UserRepository defines the operations for persisting admin users.
// RecordLoginFailure must increment the counter atomically in SQL; the
// read-modify-write variant loses updates under concurrent login attempts.
type UserRepository interface {
	FindByUsername(username string) (*User, error)
	FindByID(id int64) (*User, error)
	Count() (int, error)
	Create(user *User) error
	RecordLoginSuccess(id int64) error
	RecordLoginFailure(id int64, threshold int, lockUntil time.Time) (attempts int, locked bool, err error)
	UpdatePassword(id int64, passwordHash string) error
	UpdateUsername(id int64, username string) error
	UsernameTaken(username string, excludeID int64) (bool, error)
}

// Audit severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// AuditEntry is one append-only record of a security-relevant action.
type AuditEntry struct {
	ID         string    `json:"id"`
	AdminID    *int64    `json:"adminId,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType,omitempty"`
	EntityID   string    `json:"entityId,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	Details    string    `json:"details,omitempty"`
	Severity   string    `json:"severity"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuditFilter narrows audit-log reads.
type AuditFilter struct {
	AdminID  *int64
	Action   string
	Severity string
	Limit    int
	Offset   int
}

// AuditRepository defines the operations for the append-only audit log.
type AuditRepository interface {
	Store(entry *AuditEntry) error
	List(filter AuditFilter) ([]*AuditEntry, error)
}
