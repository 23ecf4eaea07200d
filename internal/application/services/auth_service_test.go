package services

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/securepent/securepent-go/internal/domain/admin"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/security"
)

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError + 4,
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

// fakeUserRepo is an in-memory admin.UserRepository.
type fakeUserRepo struct {
	users  map[int64]*admin.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*admin.User), nextID: 1}
}

func (r *fakeUserRepo) FindByUsername(username string) (*admin.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(id int64) (*admin.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Count() (int, error) { return len(r.users), nil }

func (r *fakeUserRepo) Create(user *admin.User) error {
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) RecordLoginSuccess(id int64) error {
	u := r.users[id]
	now := time.Now().UTC()
	u.LastLogin = &now
	u.FailedAttempts = 0
	u.LockedUntil = nil
	return nil
}

func (r *fakeUserRepo) RecordLoginFailure(id int64, threshold int, lockUntil time.Time) (int, bool, error) {
	u := r.users[id]
	u.FailedAttempts++
	if u.FailedAttempts >= threshold {
		until := lockUntil
		u.LockedUntil = &until
		return u.FailedAttempts, true, nil
	}
	return u.FailedAttempts, false, nil
}

func (r *fakeUserRepo) UpdatePassword(id int64, passwordHash string) error {
	r.users[id].PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) UpdateUsername(id int64, username string) error {
	r.users[id].Username = username
	return nil
}

func (r *fakeUserRepo) UsernameTaken(username string, excludeID int64) (bool, error) {
	for _, u := range r.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// fakeAuditRepo is an in-memory admin.AuditRepository.
type fakeAuditRepo struct {
	entries []*admin.AuditEntry
}

func (r *fakeAuditRepo) Store(entry *admin.AuditEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) List(filter admin.AuditFilter) ([]*admin.AuditEntry, error) {
	return r.entries, nil
}

func (r *fakeAuditRepo) actions() []string {
	var actions []string
	for _, e := range r.entries {
		actions = append(actions, e.Action)
	}
	return actions
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeAuditRepo) {
	t.Helper()
	logger := testLogger(t)
	users := newFakeUserRepo()
	auditRepo := &fakeAuditRepo{}
	audit := NewAuditService(auditRepo, logger)

	svc := NewAuthService(users, audit, logger, AuthConfig{
		JWTSecret:     "unit-test-secret",
		TokenExpiry:   time.Hour,
		MaxAttempts:   5,
		LockoutWindow: 15 * time.Minute,
		BcryptCost:    4,
	})

	hash, err := security.HashPassword("correct-password", 4)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	if err := users.Create(&admin.User{
		Username:     "admin",
		PasswordHash: hash,
		Role:         admin.RoleSuperAdmin,
	}); err != nil {
		t.Fatalf("failed to seed test user: %v", err)
	}

	return svc, users, auditRepo
}

func TestLoginSuccess(t *testing.T) {
	svc, _, audit := newTestAuthService(t)

	result, err := svc.Login("admin", "correct-password", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}

	claims, err := svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("issued token did not validate: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("expected claims for admin, got %q", claims.Username)
	}

	found := false
	for _, action := range audit.actions() {
		if action == "login_success" {
			found = true
		}
	}
	if !found {
		t.Error("expected a login_success audit entry")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	_, err := svc.Login("admin", "wrong", "127.0.0.1", "test-agent")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	u, _ := users.FindByUsername("admin")
	if u.FailedAttempts != 1 {
		t.Errorf("expected 1 failed attempt recorded, got %d", u.FailedAttempts)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login("ghost", "anything", "127.0.0.1", "test-agent")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLoginLockoutAfterThreshold(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	// Attempts 1-4 fail plainly.
	for i := 0; i < 4; i++ {
		_, err := svc.Login("admin", "wrong", "127.0.0.1", "test-agent")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// Fifth failure trips the lock.
	_, err := svc.Login("admin", "wrong", "127.0.0.1", "test-agent")
	var lockedErr *AccountLockedError
	if !errors.As(err, &lockedErr) {
		t.Fatalf("expected AccountLockedError on 5th attempt, got %v", err)
	}
	if !lockedErr.Until.After(time.Now()) {
		t.Error("expected lock expiry in the future")
	}

	// Even the correct password is rejected while locked.
	_, err = svc.Login("admin", "correct-password", "127.0.0.1", "test-agent")
	if !errors.As(err, &lockedErr) {
		t.Fatalf("expected AccountLockedError while locked, got %v", err)
	}
}

func TestLoginAfterLockWindowElapsed(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	for i := 0; i < 5; i++ {
		svc.Login("admin", "wrong", "127.0.0.1", "test-agent")
	}

	// Move the service clock past the lockout window.
	svc.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	result, err := svc.Login("admin", "correct-password", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("expected login to succeed after lock window, got %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token after lock expiry")
	}
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	svc.Login("admin", "wrong", "127.0.0.1", "test-agent")
	svc.Login("admin", "wrong", "127.0.0.1", "test-agent")

	if _, err := svc.Login("admin", "correct-password", "127.0.0.1", "test-agent"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	u, _ := users.FindByUsername("admin")
	if u.FailedAttempts != 0 {
		t.Errorf("expected counter reset after success, got %d", u.FailedAttempts)
	}
	if u.LockedUntil != nil {
		t.Error("expected lock cleared after success")
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if err := svc.ChangePassword(1, "wrong", "new-password-123", "127.0.0.1", "test-agent"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}
	if err := svc.ChangePassword(1, "correct-password", "short", "127.0.0.1", "test-agent"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(1, "correct-password", "new-password-123", "127.0.0.1", "test-agent"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.Login("admin", "new-password-123", "127.0.0.1", "test-agent"); err != nil {
		t.Errorf("expected login with new password to succeed, got %v", err)
	}
}

func TestUpdateUsername(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	hash, _ := security.HashPassword("x", 4)
	users.Create(&admin.User{Username: "other", PasswordHash: hash, Role: admin.RoleAdmin})

	if _, err := svc.UpdateUsername(1, "correct-password", "other", "127.0.0.1", "test-agent"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := svc.UpdateUsername(1, "correct-password", "ab", "127.0.0.1", "test-agent"); err == nil {
		t.Error("expected short username to be rejected")
	}
	if _, err := svc.UpdateUsername(1, "wrong", "root-operator", "127.0.0.1", "test-agent"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	token, err := svc.UpdateUsername(1, "correct-password", "root-operator", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("UpdateUsername failed: %v", err)
	}

	u, _ := users.FindByID(1)
	if u.Username != "root-operator" {
		t.Errorf("expected renamed user, got %q", u.Username)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("reissued token did not validate: %v", err)
	}
	if claims.Username != "root-operator" {
		t.Errorf("expected reissued claims to carry new username, got %q", claims.Username)
	}
}
