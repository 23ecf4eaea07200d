// Package visitor defines the anonymous analytics entities (sessions and
// events) and their repository interfaces.
package visitor

import "time"

// Session represents a visitor session correlated by a client-held session id.
// Created on first page hit, mutated by track/heartbeat calls, soft-ended via
// EndedAt.
type Session struct {
	ID               int64      `json:"-"`
	SessionID        string     `json:"sessionId"`
	VisitorID        string     `json:"visitorId"`
	IPAddress        string     `json:"-"`
	UserAgent        string     `json:"-"`
	Referrer         string     `json:"referrer,omitempty"`
	LandingPage      string     `json:"landingPage,omitempty"`
	DeviceType       string     `json:"deviceType"`
	Browser          string     `json:"browser"`
	OS               string     `json:"os"`
	StartedAt        time.Time  `json:"startedAt"`
	EndedAt          *time.Time `json:"endedAt,omitempty"`
	PageViews        int        `json:"pageViews"`
	TotalTimeSeconds int        `json:"totalTimeSeconds"`
}

// Event represents a single tracked interaction tied to a session.
// Immutable after creation.
type Event struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	EventType    string    `json:"eventType"`
	EventData    string    `json:"eventData,omitempty"`
	PageURL      string    `json:"pageUrl,omitempty"`
	ElementID    string    `json:"elementId,omitempty"`
	ElementClass string    `json:"elementClass,omitempty"`
	ElementText  string    `json:"elementText,omitempty"`
	XPosition    *int      `json:"xPosition,omitempty"`
	YPosition    *int      `json:"yPosition,omitempty"`
	ScrollDepth  *int      `json:"scrollDepth,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Event types accepted by track calls.
const (
	EventPageView   = "page_view"
	EventClick      = "click"
	EventScroll     = "scroll"
	EventFormStart  = "form_start"
	EventFormSubmit = "form_submit"
	EventTimeOnPage = "time_on_page"
	EventExit       = "exit"
)

// AllowedEventTypes is the fixed allow-list for track calls.
var AllowedEventTypes = []string{
	EventPageView, EventClick, EventScroll, EventFormStart, EventFormSubmit, EventTimeOnPage, EventExit,
}

// AllowedEventType reports whether eventType is on the track allow-list.
func AllowedEventType(eventType string) bool {
	for _, t := range AllowedEventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}

// SessionRepository defines the operations for persisting Session entities.
type SessionRepository interface {
	Create(session *Session) error
	Exists(sessionID string) (bool, error)
	IncrementPageViews(sessionID string) error
	RecordHeartbeat(sessionID string, totalTimeSeconds int) error
}

// EventRepository defines the operations for persisting Event entities.
type EventRepository interface {
	Store(event *Event) error
}
