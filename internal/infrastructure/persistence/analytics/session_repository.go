// Package analytics provides SQL-based implementations of the visitor
// tracking and reporting repositories.
package analytics

import (
	"fmt"
	"time"

	"github.com/securepent/securepent-go/internal/domain/visitor"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/database"
)

// SQLSessionRepository is the SQL-based implementation of
// visitor.SessionRepository.
type SQLSessionRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLSessionRepository creates a new instance of the repository.
func NewSQLSessionRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLSessionRepository {
	return &SQLSessionRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new visitor session.
func (r *SQLSessionRepository) Create(session *visitor.Session) error {
	const query = `
		INSERT INTO analytics_sessions (session_id, visitor_id, ip_address, user_agent, referrer,
			landing_page, device_type, browser, os, started_at, page_views, total_time_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Creating analytics session", "sessionId", session.SessionID, "visitorId", session.VisitorID)

	_, err := r.db.Exec(
		query,
		session.SessionID,
		session.VisitorID,
		session.IPAddress,
		session.UserAgent,
		session.Referrer,
		session.LandingPage,
		session.DeviceType,
		session.Browser,
		session.OS,
		session.StartedAt.UTC(),
		session.PageViews,
		session.TotalTimeSeconds,
	)
	if err != nil {
		r.logger.Database().Error("Session insert failed", "error", err.Error(), "sessionId", session.SessionID)
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return nil
}

// Exists reports whether a session with the given ID has been recorded.
func (r *SQLSessionRepository) Exists(sessionID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM analytics_sessions WHERE session_id = ?`

	var count int
	if err := r.db.QueryRow(query, sessionID).Scan(&count); err != nil {
		r.logger.Database().Error("Session existence check failed", "error", err.Error(), "sessionId", sessionID)
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}
	return count > 0, nil
}

// IncrementPageViews bumps the page view counter for a session and marks it
// as still active.
func (r *SQLSessionRepository) IncrementPageViews(sessionID string) error {
	const query = `UPDATE analytics_sessions SET page_views = page_views + 1, ended_at = ? WHERE session_id = ?`

	start := time.Now()
	if _, err := r.db.Exec(query, time.Now().UTC(), sessionID); err != nil {
		r.logger.Database().Error("Page view increment failed", "error", err.Error(), "sessionId", sessionID)
		return fmt.Errorf("failed to increment page views: %w", err)
	}

	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return nil
}

// RecordHeartbeat updates a session's accumulated active time and end
// timestamp. The stored total only moves forward.
func (r *SQLSessionRepository) RecordHeartbeat(sessionID string, totalTimeSeconds int) error {
	const query = `
		UPDATE analytics_sessions
		SET total_time_seconds = CASE WHEN ? > total_time_seconds THEN ? ELSE total_time_seconds END,
			ended_at = ?
		WHERE session_id = ?`

	start := time.Now()
	r.logger.Database().Debug("Recording session heartbeat", "sessionId", sessionID, "totalTimeSeconds", totalTimeSeconds)

	_, err := r.db.Exec(query, totalTimeSeconds, totalTimeSeconds, time.Now().UTC(), sessionID)
	if err != nil {
		r.logger.Database().Error("Heartbeat update failed", "error", err.Error(), "sessionId", sessionID)
		return fmt.Errorf("failed to record heartbeat: %w", err)
	}

	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return nil
}
