// Package adminuser provides SQL-based implementations of the admin user
// and audit-log repositories.
package adminuser

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/securepent/securepent-go/internal/domain/admin"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/database"
)

// SQLUserRepository is the SQL-based implementation of admin.UserRepository.
type SQLUserRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLUserRepository creates a new instance of the repository.
func NewSQLUserRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLUserRepository {
	return &SQLUserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, username, password_hash, email, role, last_login, failed_attempts, locked_until, created_at, updated_at`

// FindByUsername retrieves an admin user by username. Returns (nil, nil)
// when no row matches.
func (r *SQLUserRepository) FindByUsername(username string) (*admin.User, error) {
	query := `SELECT ` + userColumns + ` FROM admin_users WHERE username = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading admin user by username", "username", username)

	user, err := scanUser(r.db.QueryRow(query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load admin user", "error", err.Error(), "username", username)
		return nil, err
	}

	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return user, nil
}

// FindByID retrieves an admin user by row ID. Returns (nil, nil) when no
// row matches.
func (r *SQLUserRepository) FindByID(id int64) (*admin.User, error) {
	query := `SELECT ` + userColumns + ` FROM admin_users WHERE id = ?`

	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load admin user by ID", "error", err.Error(), "id", id)
		return nil, err
	}
	return user, nil
}

// Count returns the number of admin users.
func (r *SQLUserRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admin users: %w", err)
	}
	return count, nil
}

// Create persists a new admin user and fills in its row ID.
func (r *SQLUserRepository) Create(user *admin.User) error {
	const query = `
		INSERT INTO admin_users (username, password_hash, email, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`

	now := time.Now().UTC()
	err := r.db.QueryRow(query, user.Username, user.PasswordHash, user.Email, user.Role, now, now).Scan(&user.ID)
	if err != nil {
		r.logger.Database().Error("Admin user insert failed", "error", err.Error(), "username", user.Username)
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	r.logger.Database().Info("Admin user created", "id", user.ID, "username", user.Username)
	return nil
}

// RecordLoginSuccess stamps last_login and clears the lockout counters.
func (r *SQLUserRepository) RecordLoginSuccess(id int64) error {
	const query = `
		UPDATE admin_users
		SET last_login = ?, failed_attempts = 0, locked_until = NULL, updated_at = ?
		WHERE id = ?`

	now := time.Now().UTC()
	if _, err := r.db.Exec(query, now, now, id); err != nil {
		r.logger.Database().Error("Login success update failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to record login success: %w", err)
	}
	return nil
}

// RecordLoginFailure increments the failure counter in a single UPDATE so
// concurrent attempts cannot lose increments, then applies the lock once the
// returned count reaches the threshold.
func (r *SQLUserRepository) RecordLoginFailure(id int64, threshold int, lockUntil time.Time) (int, bool, error) {
	const incrementQuery = `
		UPDATE admin_users
		SET failed_attempts = failed_attempts + 1, updated_at = ?
		WHERE id = ?
		RETURNING failed_attempts`

	now := time.Now().UTC()

	var attempts int
	if err := r.db.QueryRow(incrementQuery, now, id).Scan(&attempts); err != nil {
		r.logger.Database().Error("Login failure increment failed", "error", err.Error(), "id", id)
		return 0, false, fmt.Errorf("failed to record login failure: %w", err)
	}

	if attempts < threshold {
		return attempts, false, nil
	}

	const lockQuery = `UPDATE admin_users SET locked_until = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.Exec(lockQuery, lockUntil.UTC(), now, id); err != nil {
		r.logger.Database().Error("Account lock update failed", "error", err.Error(), "id", id)
		return attempts, false, fmt.Errorf("failed to lock account: %w", err)
	}

	r.logger.Database().Info("Admin account locked", "id", id, "attempts", attempts, "lockedUntil", lockUntil)
	return attempts, true, nil
}

// UpdatePassword replaces the stored password hash.
func (r *SQLUserRepository) UpdatePassword(id int64, passwordHash string) error {
	const query = `UPDATE admin_users SET password_hash = ?, updated_at = ? WHERE id = ?`

	if _, err := r.db.Exec(query, passwordHash, time.Now().UTC(), id); err != nil {
		r.logger.Database().Error("Password update failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateUsername changes an admin user's username.
func (r *SQLUserRepository) UpdateUsername(id int64, username string) error {
	const query = `UPDATE admin_users SET username = ?, updated_at = ? WHERE id = ?`

	if _, err := r.db.Exec(query, username, time.Now().UTC(), id); err != nil {
		r.logger.Database().Error("Username update failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to update username: %w", err)
	}
	return nil
}

// UsernameTaken reports whether another user already owns the username.
func (r *SQLUserRepository) UsernameTaken(username string, excludeID int64) (bool, error) {
	const query = `SELECT COUNT(*) FROM admin_users WHERE username = ? AND id <> ?`

	var count int
	if err := r.db.QueryRow(query, username, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check username availability: %w", err)
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*admin.User, error) {
	var u admin.User
	var email sql.NullString
	var lastLogin, lockedUntil sql.NullTime

	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &email, &u.Role,
		&lastLogin, &u.FailedAttempts, &lockedUntil,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if email.Valid {
		e := email.String
		u.Email = &e
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		u.LockedUntil = &t
	}

	return &u, nil
}
