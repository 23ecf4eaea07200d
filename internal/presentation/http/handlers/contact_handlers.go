package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/securepent/securepent-go/internal/application/services"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/security"
)

// ContactHandlers contains the public contact form HTTP handlers
type ContactHandlers struct {
	contactService *services.ContactService
	logger         *logging.ChanneledLogger
}

// NewContactHandlers creates contact handlers with injected dependencies
func NewContactHandlers(contactService *services.ContactService, logger *logging.ChanneledLogger) *ContactHandlers {
	return &ContactHandlers{
		contactService: contactService,
		logger:         logger,
	}
}

// PostContact handles POST /api/v1/contact - public form submission
func (h *ContactHandlers) PostContact(c *gin.Context) {
	start := time.Now()

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Company   string `json:"company"`
		JobTitle  string `json:"jobTitle"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Contact().Debug("Contact request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	contact, err := h.contactService.Submit(security.ContactFormInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Company:   req.Company,
		JobTitle:  req.JobTitle,
		Message:   req.Message,
	}, services.SubmissionMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	})
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": validationErr.Errors})
			return
		}
		h.logger.Contact().Error("Contact submission failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit contact form"})
		return
	}

	h.logger.Contact().Info("Contact submission accepted", "uuid", contact.UUID, "duration", time.Since(start))
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"id":        contact.UUID,
		"message":   "Thank you for reaching out. We will get back to you shortly.",
		"createdAt": contact.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// GetContactStatus handles GET /api/v1/contact/status/:uuid - public status
// lookup by submission reference
func (h *ContactHandlers) GetContactStatus(c *gin.Context) {
	contact, err := h.contactService.Status(c.Param("uuid"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUUID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission reference"})
		case errors.Is(err, services.ErrContactNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		default:
			h.logger.Contact().Error("Contact status lookup failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up submission"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":          contact.UUID,
			"status":      contact.Status,
			"submittedAt": contact.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}
