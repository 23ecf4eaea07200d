// Package contact provides the SQL-based implementation of the lead
// repository.
package contact

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/securepent/securepent-go/internal/domain/lead"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/database"
)

// SQLRepository is the SQL-based implementation of lead.Repository.
type SQLRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLRepository creates a new instance of the repository.
func NewSQLRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLRepository {
	return &SQLRepository{
		db:     db,
		logger: logger,
	}
}

// Store persists a new contact submission and fills in its row ID.
func (r *SQLRepository) Store(contact *lead.Contact) error {
	const query = `
		INSERT INTO contacts (uuid, first_name, last_name, email, company, job_title, message,
			ip_address, user_agent, referrer, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	start := time.Now()
	r.logger.Database().Debug("Executing contact insert", "uuid", contact.UUID, "email", contact.Email)

	err := r.db.QueryRow(
		query,
		contact.UUID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		nullString(contact.Company),
		nullString(contact.JobTitle),
		contact.Message,
		nullString(contact.IPAddress),
		nullString(contact.UserAgent),
		nullString(contact.Referrer),
		string(contact.Status),
		contact.CreatedAt.UTC(),
	).Scan(&contact.ID)
	if err != nil {
		r.logger.Database().Error("Contact insert failed", "error", err.Error(), "uuid", contact.UUID)
		return fmt.Errorf("failed to store contact: %w", err)
	}

	r.logger.Database().Info("Contact insert completed", "uuid", contact.UUID, "id", contact.ID, "duration", time.Since(start))
	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return nil
}

// FindByUUID retrieves a contact by its public identifier. Returns (nil, nil)
// when no row matches.
func (r *SQLRepository) FindByUUID(uuid string) (*lead.Contact, error) {
	const query = `
		SELECT id, uuid, first_name, last_name, email, company, job_title, message,
			ip_address, user_agent, referrer, status, created_at, read_at, archived_at
		FROM contacts
		WHERE uuid = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading contact by UUID", "uuid", uuid)

	row := r.db.QueryRow(query, uuid)
	contact, err := scanContact(row)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Database().Debug("Contact not found by UUID", "uuid", uuid)
			return nil, nil
		}
		r.logger.Database().Error("Failed to load contact by UUID", "error", err.Error(), "uuid", uuid)
		return nil, err
	}

	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return contact, nil
}

// List returns a page of contacts newest-first, optionally filtered by
// status, along with the total count for the filter.
func (r *SQLRepository) List(status lead.Status, limit, offset int) ([]*lead.Contact, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	countQuery := `SELECT COUNT(*) FROM contacts`
	listQuery := `
		SELECT id, uuid, first_name, last_name, email, company, job_title, message,
			ip_address, user_agent, referrer, status, created_at, read_at, archived_at
		FROM contacts`

	var countArgs, listArgs []any
	if status != "" {
		countQuery += ` WHERE status = ?`
		listQuery += ` WHERE status = ?`
		countArgs = append(countArgs, string(status))
		listArgs = append(listArgs, string(status))
	}
	listQuery += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	listArgs = append(listArgs, limit, offset)

	start := time.Now()

	var total int
	if err := r.db.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		r.logger.Database().Error("Contact count failed", "error", err.Error())
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	rows, err := r.db.Query(listQuery, listArgs...)
	if err != nil {
		r.logger.Database().Error("Contact list query failed", "error", err.Error())
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*lead.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("contact list iteration failed: %w", err)
	}

	r.db.CheckAndLogSlowQuery(listQuery, time.Since(start))
	return contacts, total, nil
}

// UpdateStatus transitions a contact's lifecycle state, stamping read_at or
// archived_at as appropriate. Returns (nil, nil) when the UUID is unknown.
func (r *SQLRepository) UpdateStatus(uuid string, status lead.Status) (*lead.Contact, error) {
	now := time.Now().UTC()

	var query string
	var args []any
	switch status {
	case lead.StatusRead:
		query = `UPDATE contacts SET status = ?, read_at = ? WHERE uuid = ?`
		args = []any{string(status), now, uuid}
	case lead.StatusArchived:
		query = `UPDATE contacts SET status = ?, archived_at = ? WHERE uuid = ?`
		args = []any{string(status), now, uuid}
	default:
		query = `UPDATE contacts SET status = ? WHERE uuid = ?`
		args = []any{string(status), uuid}
	}

	start := time.Now()
	r.logger.Database().Debug("Updating contact status", "uuid", uuid, "status", status)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		r.logger.Database().Error("Contact status update failed", "error", err.Error(), "uuid", uuid)
		return nil, fmt.Errorf("failed to update contact status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return r.FindByUUID(uuid)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*lead.Contact, error) {
	var c lead.Contact
	var company, jobTitle, ipAddress, userAgent, referrer sql.NullString
	var status string
	var readAt, archivedAt sql.NullTime

	err := row.Scan(
		&c.ID, &c.UUID, &c.FirstName, &c.LastName, &c.Email,
		&company, &jobTitle, &c.Message,
		&ipAddress, &userAgent, &referrer,
		&status, &c.CreatedAt, &readAt, &archivedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Company = company.String
	c.JobTitle = jobTitle.String
	c.IPAddress = ipAddress.String
	c.UserAgent = userAgent.String
	c.Referrer = referrer.String
	c.Status = lead.Status(status)
	if readAt.Valid {
		t := readAt.Time
		c.ReadAt = &t
	}
	if archivedAt.Valid {
		t := archivedAt.Time
		c.ArchivedAt = &t
	}

	return &c, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
