package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/securepent/securepent-go/internal/application/services"
	"github.com/securepent/securepent-go/internal/domain/admin"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
)

// AdminHandlers contains the JWT-gated dashboard HTTP handlers
type AdminHandlers struct {
	dashboardService *services.DashboardService
	contactService   *services.ContactService
	auditService     *services.AuditService
	logger           *logging.ChanneledLogger
}

// NewAdminHandlers creates admin handlers with injected dependencies
func NewAdminHandlers(
	dashboardService *services.DashboardService,
	contactService *services.ContactService,
	auditService *services.AuditService,
	logger *logging.ChanneledLogger,
) *AdminHandlers {
	return &AdminHandlers{
		dashboardService: dashboardService,
		contactService:   contactService,
		auditService:     auditService,
		logger:           logger,
	}
}

// GetDashboard handles GET /api/v1/admin/dashboard - summary, breakdowns and
// the most recent submissions in one payload.
func (h *AdminHandlers) GetDashboard(c *gin.Context) {
	overview, err := h.dashboardService.Overview()
	if err != nil {
		h.logger.Analytics().Error("Dashboard overview failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	recent, _, err := h.contactService.List("", 5, 0)
	if err != nil {
		h.logger.Contact().Error("Recent contacts query failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":          overview.Stats,
		"devices":        overview.Devices,
		"browsers":       overview.Browsers,
		"topPages":       overview.TopPages,
		"referrers":      overview.Referrers,
		"recentContacts": recent,
	})
}

// GetTimeseries handles GET /api/v1/admin/analytics/timeseries?days=30
func (h *AdminHandlers) GetTimeseries(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	points, err := h.dashboardService.Timeseries(days)
	if err != nil {
		h.logger.Analytics().Error("Timeseries query failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load timeseries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// GetTopPages handles GET /api/v1/admin/analytics/pages?limit=10
func (h *AdminHandlers) GetTopPages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	pages, err := h.dashboardService.TopPages(limit)
	if err != nil {
		h.logger.Analytics().Error("Top pages query failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load page stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

// GetTopReferrers handles GET /api/v1/admin/analytics/referrers?limit=10
func (h *AdminHandlers) GetTopReferrers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	referrers, err := h.dashboardService.TopReferrers(limit)
	if err != nil {
		h.logger.Analytics().Error("Top referrers query failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load referrer stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrers": referrers})
}

// GetContacts handles GET /api/v1/admin/contacts?status=&limit=&offset=
func (h *AdminHandlers) GetContacts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	contacts, total, err := h.contactService.List(c.Query("status"), limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		h.logger.Contact().Error("Contact list failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetContactDetail handles GET /api/v1/admin/contacts/:uuid
func (h *AdminHandlers) GetContactDetail(c *gin.Context) {
	uuid := c.Param("uuid")
	contact, err := h.contactService.Status(uuid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUUID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission reference"})
		case errors.Is(err, services.ErrContactNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		default:
			h.logger.Contact().Error("Contact lookup failed", "error", err.Error(), "uuid", uuid)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contact"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

// PutContactStatus handles PUT /api/v1/admin/contacts/:uuid/status
func (h *AdminHandlers) PutContactStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	uuid := c.Param("uuid")
	contact, err := h.contactService.UpdateStatus(uuid, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUUID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission reference"})
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		case errors.Is(err, services.ErrContactNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		default:
			h.logger.Contact().Error("Contact status update failed", "error", err.Error(), "uuid", uuid)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		}
		return
	}

	if claims, ok := GetAdminClaims(c); ok {
		h.auditService.Record(services.AuditEvent{
			AdminID:    &claims.UserID,
			Action:     "contact_status_updated",
			EntityType: "contact",
			EntityID:   uuid,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Details:    "status set to " + req.Status,
		})
	}

	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

// GetAuditLog handles GET /api/v1/admin/audit?action=&severity=&adminId=&limit=&offset=
func (h *AdminHandlers) GetAuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := admin.AuditFilter{
		Action:   c.Query("action"),
		Severity: c.Query("severity"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("adminId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adminId filter"})
			return
		}
		filter.AdminID = &id
	}

	entries, err := h.auditService.List(filter)
	if err != nil {
		h.logger.Audit().Error("Audit list failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "limit": limit, "offset": offset})
}
