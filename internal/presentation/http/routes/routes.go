// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/securepent/securepent-go/internal/application/container"
	"github.com/securepent/securepent-go/internal/domain/admin"
	"github.com/securepent/securepent-go/internal/presentation/http/handlers"
	"github.com/securepent/securepent-go/internal/presentation/http/middleware"
	"github.com/securepent/securepent-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestLogger(container.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.BodySizeLimit(config.MaxBodyBytes))

	generalLimiter := middleware.NewRateLimiter(config.RateLimitRPS, config.RateLimitBurst)
	loginLimiter := middleware.NewRateLimiter(config.LoginRateLimitRPS, config.LoginRateLimitBurst)

	// Initialize handlers
	contactHandlers := handlers.NewContactHandlers(container.ContactService, container.Logger)
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.AnalyticsService, container.Logger)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	adminHandlers := handlers.NewAdminHandlers(container.DashboardService, container.ContactService, container.AuditService, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.DB, container.Logger)

	health := r.Group("/api/health")
	{
		health.GET("", healthHandlers.GetHealth)
		health.GET("/ready", healthHandlers.GetReady)
		health.GET("/live", healthHandlers.GetLive)
	}

	api := r.Group("/api/v1")
	api.Use(generalLimiter.Middleware())
	{
		// Public contact form
		api.POST("/contact", contactHandlers.PostContact)
		api.GET("/contact/status/:uuid", contactHandlers.GetContactStatus)

		// Public tracking ingestion
		analyticsGroup := api.Group("/analytics")
		{
			analyticsGroup.POST("/session", analyticsHandlers.PostSession)
			analyticsGroup.POST("/track", analyticsHandlers.PostTrack)
			analyticsGroup.POST("/heartbeat", analyticsHandlers.PostHeartbeat)
		}

		// Admin authentication
		authGroup := api.Group("/auth")
		{
			// Login carries its own tighter bucket on top of the general one
			authGroup.POST("/login", loginLimiter.Middleware(), authHandlers.PostLogin)

			authGroup.Use(authHandlers.AuthMiddleware())
			{
				authGroup.POST("/logout", authHandlers.PostLogout)
				authGroup.GET("/me", authHandlers.GetMe)
				authGroup.POST("/change-password", authHandlers.PostChangePassword)
				authGroup.PUT("/update-username", authHandlers.PutUpdateUsername)
			}
		}

		// Admin dashboard API
		adminGroup := api.Group("/admin")
		adminGroup.Use(authHandlers.AuthMiddleware())
		{
			adminGroup.GET("/dashboard", adminHandlers.GetDashboard)
			adminGroup.GET("/analytics/pages", adminHandlers.GetTopPages)
			adminGroup.GET("/analytics/referrers", adminHandlers.GetTopReferrers)
			adminGroup.GET("/analytics/timeseries", adminHandlers.GetTimeseries)
			adminGroup.GET("/contacts", adminHandlers.GetContacts)
			adminGroup.GET("/contacts/:uuid", adminHandlers.GetContactDetail)
			adminGroup.PUT("/contacts/:uuid/status", adminHandlers.PutContactStatus)
			adminGroup.GET("/audit", authHandlers.RequireRole(admin.RoleSuperAdmin), adminHandlers.GetAuditLog)
		}
	}

	return r
}
