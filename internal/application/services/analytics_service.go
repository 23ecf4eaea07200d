package services

import (
	"errors"
	"time"

	"github.com/securepent/securepent-go/internal/domain/visitor"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/security"
)

// Analytics errors surfaced to handlers.
var (
	ErrInvalidSessionID = errors.New("invalid session identifier")
	ErrUnknownSession   = errors.New("unknown session")
	ErrInvalidEventType = errors.New("event type is not allowed")
)

// AnalyticsService handles visitor session tracking and event ingestion.
type AnalyticsService struct {
	sessions visitor.SessionRepository
	events   visitor.EventRepository
	logger   *logging.ChanneledLogger
	now      func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(sessions visitor.SessionRepository, events visitor.EventRepository, logger *logging.ChanneledLogger) *AnalyticsService {
	return &AnalyticsService{
		sessions: sessions,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// StartSessionInput is the payload for opening a visitor session.
type StartSessionInput struct {
	SessionID   string
	VisitorID   string
	Referrer    string
	LandingPage string
	IPAddress   string
	UserAgent   string
}

// StartSession records a new visitor session and returns the session and
// visitor IDs in effect. Missing IDs are minted server-side; repeated calls
// with the same session ID are idempotent so a reloading page does not
// duplicate sessions.
func (s *AnalyticsService) StartSession(input StartSessionInput) (string, string, error) {
	if input.SessionID == "" {
		input.SessionID = security.GenerateUUID()
	} else if !security.ValidUUID(input.SessionID) {
		return "", "", ErrInvalidSessionID
	}
	if input.VisitorID == "" {
		input.VisitorID = security.GenerateUUID()
	} else if !security.ValidUUID(input.VisitorID) {
		return "", "", ErrInvalidSessionID
	}

	exists, err := s.sessions.Exists(input.SessionID)
	if err != nil {
		return "", "", err
	}
	if exists {
		return input.SessionID, input.VisitorID, nil
	}

	deviceType, browser, os := visitor.ParseUserAgent(input.UserAgent)

	session := &visitor.Session{
		SessionID:   input.SessionID,
		VisitorID:   input.VisitorID,
		IPAddress:   security.SanitizeIP(input.IPAddress),
		UserAgent:   security.SanitizeString(input.UserAgent, security.SanitizeOptions{MaxLength: 512}),
		Referrer:    security.SanitizeURL(input.Referrer),
		LandingPage: security.SanitizeString(input.LandingPage, security.SanitizeOptions{MaxLength: 2048}),
		DeviceType:  deviceType,
		Browser:     browser,
		OS:          os,
		StartedAt:   s.now().UTC(),
	}

	if err := s.sessions.Create(session); err != nil {
		return "", "", err
	}

	s.logger.Analytics().Debug("Visitor session started", "sessionId", session.SessionID, "device", deviceType, "browser", browser)
	return session.SessionID, session.VisitorID, nil
}

// TrackEventInput is the payload for one tracking event.
type TrackEventInput struct {
	SessionID    string
	EventType    string
	EventData    string
	PageURL      string
	ElementID    string
	ElementClass string
	ElementText  string
	XPosition    *int
	YPosition    *int
	ScrollDepth  *int
}

// TrackEvent validates and stores a tracking event. Only allow-listed event
// types are accepted, and the session must already exist.
func (s *AnalyticsService) TrackEvent(input TrackEventInput) error {
	if !security.ValidUUID(input.SessionID) {
		return ErrInvalidSessionID
	}
	if !visitor.AllowedEventType(input.EventType) {
		s.logger.Analytics().Warn("Rejected event with unknown type", "type", input.EventType, "sessionId", input.SessionID)
		return ErrInvalidEventType
	}

	exists, err := s.sessions.Exists(input.SessionID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownSession
	}

	event := &visitor.Event{
		ID:           security.GenerateULID(),
		SessionID:    input.SessionID,
		EventType:    input.EventType,
		EventData:    security.SanitizeString(input.EventData, security.SanitizeOptions{MaxLength: 4096, AllowNewlines: true}),
		PageURL:      security.SanitizeString(input.PageURL, security.SanitizeOptions{MaxLength: 2048}),
		ElementID:    security.SanitizeString(input.ElementID, security.SanitizeOptions{MaxLength: 256}),
		ElementClass: security.SanitizeString(input.ElementClass, security.SanitizeOptions{MaxLength: 256}),
		ElementText:  security.SanitizeString(input.ElementText, security.SanitizeOptions{MaxLength: 256}),
		XPosition:    input.XPosition,
		YPosition:    input.YPosition,
		ScrollDepth:  input.ScrollDepth,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.events.Store(event); err != nil {
		return err
	}

	if event.EventType == visitor.EventPageView {
		if err := s.sessions.IncrementPageViews(event.SessionID); err != nil {
			s.logger.Analytics().Error("Failed to increment page views", "error", err.Error(), "sessionId", event.SessionID)
		}
	}

	s.logger.Analytics().Debug("Event tracked", "eventId", event.ID, "type", event.EventType, "sessionId", event.SessionID)
	return nil
}

// Heartbeat updates a session's accumulated active time.
func (s *AnalyticsService) Heartbeat(sessionID string, totalTimeSeconds int) error {
	if !security.ValidUUID(sessionID) {
		return ErrInvalidSessionID
	}
	if totalTimeSeconds < 0 {
		totalTimeSeconds = 0
	}

	exists, err := s.sessions.Exists(sessionID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownSession
	}

	return s.sessions.RecordHeartbeat(sessionID, totalTimeSeconds)
}
