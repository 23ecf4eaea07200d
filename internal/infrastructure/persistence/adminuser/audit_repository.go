package adminuser

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/securepent/securepent-go/internal/domain/admin"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/database"
)

// SQLAuditRepository is the SQL-based implementation of
// admin.AuditRepository. The log is append-only; there are no update or
// delete operations.
type SQLAuditRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLAuditRepository creates a new instance of the repository.
func NewSQLAuditRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLAuditRepository {
	return &SQLAuditRepository{
		db:     db,
		logger: logger,
	}
}

// Store appends an audit entry.
func (r *SQLAuditRepository) Store(entry *admin.AuditEntry) error {
	const query = `
		INSERT INTO admin_audit_log (id, admin_id, action, entity_type, entity_id,
			ip_address, user_agent, details, severity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(
		query,
		entry.ID,
		entry.AdminID,
		entry.Action,
		nullString(entry.EntityType),
		nullString(entry.EntityID),
		nullString(entry.IPAddress),
		nullString(entry.UserAgent),
		nullString(entry.Details),
		entry.Severity,
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Database().Error("Audit entry insert failed", "error", err.Error(), "action", entry.Action)
		return fmt.Errorf("failed to store audit entry: %w", err)
	}

	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return nil
}

// List returns audit entries newest-first, narrowed by the filter.
func (r *SQLAuditRepository) List(filter admin.AuditFilter) ([]*admin.AuditEntry, error) {
	query := `
		SELECT id, admin_id, action, entity_type, entity_id, ip_address, user_agent, details, severity, created_at
		FROM admin_audit_log`

	var conditions []string
	var args []any
	if filter.AdminID != nil {
		conditions = append(conditions, `admin_id = ?`)
		args = append(args, *filter.AdminID)
	}
	if filter.Action != "" {
		conditions = append(conditions, `action = ?`)
		args = append(args, filter.Action)
	}
	if filter.Severity != "" {
		conditions = append(conditions, `severity = ?`)
		args = append(args, filter.Severity)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	start := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Audit list query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*admin.AuditEntry
	for rows.Next() {
		var e admin.AuditEntry
		var adminID sql.NullInt64
		var entityType, entityID, ipAddress, userAgent, details sql.NullString

		err := rows.Scan(
			&e.ID, &adminID, &e.Action,
			&entityType, &entityID, &ipAddress, &userAgent, &details,
			&e.Severity, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}

		if adminID.Valid {
			id := adminID.Int64
			e.AdminID = &id
		}
		e.EntityType = entityType.String
		e.EntityID = entityID.String
		e.IPAddress = ipAddress.String
		e.UserAgent = userAgent.String
		e.Details = details.String

		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit list iteration failed: %w", err)
	}

	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return entries, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
