// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/securepent/securepent-go/internal/application/container"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/database"
	"github.com/securepent/securepent-go/internal/infrastructure/security"
	"github.com/securepent/securepent-go/internal/presentation/http/server"
	"github.com/securepent/securepent-go/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until
// shutdown completes.
func Initialize() error {
	start := time.Now().UTC()

	if config.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}

	// Step 1: Channeled logging
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.LogDirectory = config.LogDirectory
	logger, err := logging.NewChanneledLogger(loggerConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized", "directory", config.LogDirectory)

	// Step 2: Database connection
	driver, dsn := database.DataSourceName()
	logger.Startup().Info("Connecting to database", "driver", driver)
	db, err := database.NewConnection(driver, dsn, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Step 3: Schema and bootstrap admin
	tableCreator := database.NewTableCreator()
	if err := tableCreator.CreateSchema(db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	logger.Startup().Info("Database schema verified")

	if err := seedBootstrapAdmin(tableCreator, db, logger); err != nil {
		return err
	}

	// Step 4: Dependency injection container
	appContainer := container.NewContainer(db, logger)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 5: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Block until a shutdown signal arrives, then drain connections.
	sig := <-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("HTTP server shutdown failed", "error", err.Error())
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Shutdown().Info("Shutdown complete")
	return nil
}

// seedBootstrapAdmin inserts the first admin account when the table is
// empty. With no configured password a random one is generated and printed
// once so a fresh install is never reachable with a known default.
func seedBootstrapAdmin(tableCreator *database.TableCreator, db *database.DB, logger *logging.ChanneledLogger) error {
	password := config.AdminPassword
	generated := false
	if password == "" {
		var err error
		password, err = security.GenerateSecureToken(16)
		if err != nil {
			return fmt.Errorf("failed to generate bootstrap password: %w", err)
		}
		generated = true
	}

	hash, err := security.HashPassword(password, config.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	created, err := tableCreator.SeedAdminUser(db, config.AdminUsername, hash)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if created {
		logger.Startup().Info("Bootstrap admin user created", "username", config.AdminUsername)
		if generated {
			log.Printf("Generated admin password for %q: %s (change it after first login)", config.AdminUsername, password)
		}
	}
	return nil
}
