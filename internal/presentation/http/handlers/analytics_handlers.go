package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securepent/securepent-go/internal/application/services"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
)

// AnalyticsHandlers contains the public tracking ingestion handlers
type AnalyticsHandlers struct {
	analyticsService *services.AnalyticsService
	logger           *logging.ChanneledLogger
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies
func NewAnalyticsHandlers(analyticsService *services.AnalyticsService, logger *logging.ChanneledLogger) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// PostSession handles POST /api/v1/analytics/session - opens a visitor session
func (h *AnalyticsHandlers) PostSession(c *gin.Context) {
	var req struct {
		SessionID   string `json:"sessionId"`
		VisitorID   string `json:"visitorId"`
		Referrer    string `json:"referrer"`
		LandingPage string `json:"landingPage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	sessionID, visitorID, err := h.analyticsService.StartSession(services.StartSessionInput{
		SessionID:   req.SessionID,
		VisitorID:   req.VisitorID,
		Referrer:    req.Referrer,
		LandingPage: req.LandingPage,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidSessionID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session identifier"})
			return
		}
		h.logger.Analytics().Error("Session start failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sessionId": sessionID,
		"visitorId": visitorID,
	})
}

// PostTrack handles POST /api/v1/analytics/track - records one event
func (h *AnalyticsHandlers) PostTrack(c *gin.Context) {
	var req struct {
		SessionID    string `json:"sessionId" binding:"required"`
		EventType    string `json:"eventType" binding:"required"`
		EventData    string `json:"eventData"`
		PageURL      string `json:"pageUrl"`
		ElementID    string `json:"elementId"`
		ElementClass string `json:"elementClass"`
		ElementText  string `json:"elementText"`
		XPosition    *int   `json:"xPosition"`
		YPosition    *int   `json:"yPosition"`
		ScrollDepth  *int   `json:"scrollDepth"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId and eventType are required"})
		return
	}

	err := h.analyticsService.TrackEvent(services.TrackEventInput{
		SessionID:    req.SessionID,
		EventType:    req.EventType,
		EventData:    req.EventData,
		PageURL:      req.PageURL,
		ElementID:    req.ElementID,
		ElementClass: req.ElementClass,
		ElementText:  req.ElementText,
		XPosition:    req.XPosition,
		YPosition:    req.YPosition,
		ScrollDepth:  req.ScrollDepth,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSessionID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session identifier"})
		case errors.Is(err, services.ErrInvalidEventType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event type is not allowed"})
		case errors.Is(err, services.ErrUnknownSession):
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		default:
			h.logger.Analytics().Error("Event tracking failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track event"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostHeartbeat handles POST /api/v1/analytics/heartbeat - updates session time
func (h *AnalyticsHandlers) PostHeartbeat(c *gin.Context) {
	var req struct {
		SessionID        string `json:"sessionId" binding:"required"`
		TotalTimeSeconds int    `json:"totalTimeSeconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	err := h.analyticsService.Heartbeat(req.SessionID, req.TotalTimeSeconds)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSessionID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session identifier"})
		case errors.Is(err, services.ErrUnknownSession):
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		default:
			h.logger.Analytics().Error("Heartbeat failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record heartbeat"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
