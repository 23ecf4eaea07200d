// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/securepent/securepent-go/internal/application/services"
	"github.com/securepent/securepent-go/internal/infrastructure/caching/stores"
	"github.com/securepent/securepent-go/internal/infrastructure/email"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/adminuser"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/analytics"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/contact"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/database"
	"github.com/securepent/securepent-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateless singletons)
	AuthService      *services.AuthService
	ContactService   *services.ContactService
	AnalyticsService *services.AnalyticsService
	AuditService     *services.AuditService
	DashboardService *services.DashboardService

	// Infrastructure dependencies
	DB           *database.DB
	Logger       *logging.ChanneledLogger
	EmailService email.Service
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger) *Container {
	emailService, err := email.NewService()
	if err != nil {
		logger.Email().Warn("Email notifications disabled", "reason", err.Error())
		emailService = email.NewNoopService()
	}

	contactRepo := contact.NewSQLRepository(db, logger)
	sessionRepo := analytics.NewSQLSessionRepository(db, logger)
	eventRepo := analytics.NewSQLEventRepository(db, logger)
	reportingRepo := analytics.NewSQLReportingRepository(db, logger)
	userRepo := adminuser.NewSQLUserRepository(db, logger)
	auditRepo := adminuser.NewSQLAuditRepository(db, logger)

	auditService := services.NewAuditService(auditRepo, logger)
	authService := services.NewAuthService(userRepo, auditService, logger, services.AuthConfig{
		JWTSecret:     config.JWTSecret,
		TokenExpiry:   config.JWTExpiry,
		MaxAttempts:   config.LoginMaxAttempts,
		LockoutWindow: config.LoginLockoutWindow,
		BcryptCost:    config.BcryptCost,
	})

	return &Container{
		AuthService:      authService,
		ContactService:   services.NewContactService(contactRepo, emailService, auditService, logger),
		AnalyticsService: services.NewAnalyticsService(sessionRepo, eventRepo, logger),
		AuditService:     auditService,
		DashboardService: services.NewDashboardService(reportingRepo, stores.NewReportingStore(config.DashboardCacheTTL), logger),

		DB:           db,
		Logger:       logger,
		EmailService: emailService,
	}
}
