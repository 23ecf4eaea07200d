package analytics

import (
	"fmt"
	"time"

	"github.com/securepent/securepent-go/internal/domain/visitor"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/database"
)

// SQLEventRepository is the SQL-based implementation of
// visitor.EventRepository.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{
		db:     db,
		logger: logger,
	}
}

// Store persists a tracking event.
func (r *SQLEventRepository) Store(event *visitor.Event) error {
	const query = `
		INSERT INTO analytics_events (id, session_id, event_type, event_data, page_url,
			element_id, element_class, element_text, x_position, y_position, scroll_depth, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Storing analytics event", "eventId", event.ID, "type", event.EventType, "sessionId", event.SessionID)

	_, err := r.db.Exec(
		query,
		event.ID,
		event.SessionID,
		event.EventType,
		nullableString(event.EventData),
		nullableString(event.PageURL),
		nullableString(event.ElementID),
		nullableString(event.ElementClass),
		nullableString(event.ElementText),
		event.XPosition,
		event.YPosition,
		event.ScrollDepth,
		event.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Database().Error("Event insert failed", "error", err.Error(), "eventId", event.ID, "type", event.EventType)
		return fmt.Errorf("failed to store event: %w", err)
	}

	r.db.CheckAndLogSlowQuery(query, time.Since(start))
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
