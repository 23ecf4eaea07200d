package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/securepent/securepent-go/internal/domain/admin"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/security"
)

// Authentication errors surfaced to handlers.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("admin user not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// AccountLockedError signals a lockout with its expiry so handlers can
// return the retry instant to the client.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.UTC().Format(time.RFC3339))
}

// AuthConfig carries the authentication tunables.
type AuthConfig struct {
	JWTSecret     string
	TokenExpiry   time.Duration
	MaxAttempts   int
	LockoutWindow time.Duration
	BcryptCost    int
}

// AuthService handles admin authentication, brute-force lockout and JWT
// operations.
type AuthService struct {
	users  admin.UserRepository
	audit  *AuditService
	logger *logging.ChanneledLogger
	config AuthConfig
	now    func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(users admin.UserRepository, audit *AuditService, logger *logging.ChanneledLogger, config AuthConfig) *AuthService {
	return &AuthService{
		users:  users,
		audit:  audit,
		logger: logger,
		config: config,
		now:    time.Now,
	}
}

// LoginResult holds a successful authentication outcome.
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *admin.User `json:"user"`
}

// Login verifies credentials and issues a JWT. Unknown usernames burn a
// bcrypt comparison against a decoy hash so response timing does not reveal
// whether the account exists. Failed attempts count toward lockout; the
// counter increment happens atomically in the repository.
func (s *AuthService) Login(username, password, ipAddress, userAgent string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	now := s.now()

	user, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin user: %w", err)
	}
	if user == nil {
		security.DummyCompare(password)
		s.logger.Auth().Warn("Login attempt for unknown username", "username", username, "ip", ipAddress)
		s.audit.Record(AuditEvent{
			Action:    "login_failed",
			IPAddress: ipAddress,
			UserAgent: userAgent,
			Details:   fmt.Sprintf("unknown username %q", username),
			Severity:  admin.SeverityWarning,
		})
		return nil, ErrInvalidCredentials
	}

	if user.Locked(now) {
		s.logger.Auth().Warn("Login attempt on locked account", "username", username, "lockedUntil", user.LockedUntil)
		s.audit.Record(AuditEvent{
			AdminID:   &user.ID,
			Action:    "login_blocked",
			IPAddress: ipAddress,
			UserAgent: userAgent,
			Details:   "account is locked",
			Severity:  admin.SeverityWarning,
		})
		return nil, &AccountLockedError{Until: *user.LockedUntil}
	}

	if !security.CheckPassword(user.PasswordHash, password) {
		lockUntil := now.Add(s.config.LockoutWindow)
		attempts, locked, err := s.users.RecordLoginFailure(user.ID, s.config.MaxAttempts, lockUntil)
		if err != nil {
			return nil, fmt.Errorf("failed to record login failure: %w", err)
		}

		severity := admin.SeverityWarning
		details := fmt.Sprintf("wrong password, attempt %d of %d", attempts, s.config.MaxAttempts)
		if locked {
			severity = admin.SeverityCritical
			details = fmt.Sprintf("account locked after %d failed attempts", attempts)
			s.logger.Auth().Warn("Account locked by brute-force threshold", "username", username, "attempts", attempts, "lockedUntil", lockUntil)
		} else {
			s.logger.Auth().Warn("Failed login attempt", "username", username, "attempts", attempts, "ip", ipAddress)
		}
		s.audit.Record(AuditEvent{
			AdminID:   &user.ID,
			Action:    "login_failed",
			IPAddress: ipAddress,
			UserAgent: userAgent,
			Details:   details,
			Severity:  severity,
		})

		if locked {
			return nil, &AccountLockedError{Until: lockUntil}
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.users.RecordLoginSuccess(user.ID); err != nil {
		return nil, fmt.Errorf("failed to record login success: %w", err)
	}

	token, err := security.GenerateAdminToken(user, s.config.JWTSecret, s.config.TokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Auth().Info("Admin login succeeded", "username", username, "userId", user.ID, "ip", ipAddress)
	s.audit.Record(AuditEvent{
		AdminID:   &user.ID,
		Action:    "login_success",
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})

	user.FailedAttempts = 0
	user.LockedUntil = nil
	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.config.TokenExpiry),
		User:      user,
	}, nil
}

// ValidateToken parses and verifies a bearer token.
func (s *AuthService) ValidateToken(tokenString string) (*security.AdminClaims, error) {
	return security.ValidateAdminToken(tokenString, s.config.JWTSecret)
}

// CurrentUser loads the admin user behind a set of verified claims.
func (s *AuthService) CurrentUser(claims *security.AdminClaims) (*admin.User, error) {
	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(userID int64, currentPassword, newPassword, ipAddress, userAgent string) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !security.CheckPassword(user.PasswordHash, currentPassword) {
		s.audit.Record(AuditEvent{
			AdminID:   &user.ID,
			Action:    "password_change_failed",
			IPAddress: ipAddress,
			UserAgent: userAgent,
			Details:   "current password verification failed",
			Severity:  admin.SeverityWarning,
		})
		return ErrInvalidCredentials
	}

	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	hash, err := security.HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.users.UpdatePassword(user.ID, hash); err != nil {
		return err
	}

	s.logger.Auth().Info("Admin password changed", "userId", user.ID)
	s.audit.Record(AuditEvent{
		AdminID:   &user.ID,
		Action:    "password_changed",
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Severity:  admin.SeverityWarning,
	})
	return nil
}

// UpdateUsername renames an admin account after verifying the current
// password and checking availability. A fresh token is issued so the claims
// carry the new username.
func (s *AuthService) UpdateUsername(userID int64, currentPassword, newUsername, ipAddress, userAgent string) (string, error) {
	newUsername = strings.TrimSpace(security.SanitizeString(newUsername, security.SanitizeOptions{MaxLength: 64}))
	if len(newUsername) < 3 {
		return "", errors.New("username must be at least 3 characters")
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	if !security.CheckPassword(user.PasswordHash, currentPassword) {
		s.audit.Record(AuditEvent{
			AdminID:   &user.ID,
			Action:    "username_change_failed",
			IPAddress: ipAddress,
			UserAgent: userAgent,
			Details:   "current password verification failed",
			Severity:  admin.SeverityWarning,
		})
		return "", ErrInvalidCredentials
	}

	taken, err := s.users.UsernameTaken(newUsername, user.ID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrUsernameTaken
	}

	if err := s.users.UpdateUsername(user.ID, newUsername); err != nil {
		return "", err
	}

	oldUsername := user.Username
	user.Username = newUsername
	token, err := security.GenerateAdminToken(user, s.config.JWTSecret, s.config.TokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to reissue token: %w", err)
	}

	s.logger.Auth().Info("Admin username changed", "userId", user.ID, "username", newUsername)
	s.audit.Record(AuditEvent{
		AdminID:   &user.ID,
		Action:    "username_changed",
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Details:   fmt.Sprintf("renamed %q to %q", oldUsername, newUsername),
	})
	return token, nil
}

// Logout records the sign-out in the audit log. Tokens are stateless so
// there is nothing to revoke server-side.
func (s *AuthService) Logout(claims *security.AdminClaims, ipAddress, userAgent string) {
	s.logger.Auth().Info("Admin logged out", "userId", claims.UserID, "username", claims.Username)
	s.audit.Record(AuditEvent{
		AdminID:   &claims.UserID,
		Action:    "logout",
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})
}
