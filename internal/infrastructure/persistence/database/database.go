// Package database provides the core functionality for creating and managing
// database connections in a clean, isolated manner. Three drivers are
// supported: sqlite3 (local file, the default), libsql (remote sqlite with an
// auth token), and postgres.
package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/pkg/config"
)

// DB wraps the standard SQL connection pool with driver awareness so the
// repositories can write `?` placeholders once and still run on postgres.
type DB struct {
	*sql.DB
	driverName string
	logger     *logging.ChanneledLogger
}

// NewConnection establishes a new database connection for the specified driver.
func NewConnection(driverName, dataSourceName string, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	logger.Database().Debug("Creating new database connection", "driverName", driverName)

	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", driverName)
		return nil, err
	}

	if err = db.Ping(); err != nil {
		logger.Database().Error("Database ping failed", "error", err.Error(), "driverName", driverName)
		return nil, err
	}

	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	logger.Database().Info("Database connection established", "driverName", driverName, "duration", time.Since(start))

	return &DB{DB: db, driverName: driverName, logger: logger}, nil
}

// DriverName returns the driver this connection was opened with.
func (d *DB) DriverName() string {
	return d.driverName
}

// Postgres reports whether the connection speaks the postgres dialect.
func (d *DB) Postgres() bool {
	return d.driverName == "postgres"
}

// Rebind rewrites `?` placeholders to `$n` for postgres. The sqlite-family
// drivers take the query unchanged.
func (d *DB) Rebind(query string) string {
	if !d.Postgres() {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Exec runs a statement with placeholder rebinding.
func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	return d.DB.Exec(d.Rebind(query), args...)
}

// Query runs a query with placeholder rebinding.
func (d *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return d.DB.Query(d.Rebind(query), args...)
}

// QueryRow runs a single-row query with placeholder rebinding.
func (d *DB) QueryRow(query string, args ...any) *sql.Row {
	return d.DB.QueryRow(d.Rebind(query), args...)
}

// CheckAndLogSlowQuery logs the query on the slow-query channel when its
// duration exceeds the configured threshold.
func (d *DB) CheckAndLogSlowQuery(query string, duration time.Duration) {
	if duration > config.SlowQueryThreshold {
		d.logger.LogSlowQuery(query, duration)
	}
}

// RoundTrip performs a SELECT 1 against the connection. Used by the health
// endpoints.
func (d *DB) RoundTrip() error {
	var result int
	if err := d.DB.QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("connection test query failed: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("unexpected query result: %d", result)
	}
	return nil
}

// DataSourceName builds the DSN for the configured driver.
func DataSourceName() (driver, dsn string) {
	switch config.DBDriver {
	case "libsql":
		dsn = config.DatabaseURL
		if config.TursoAuthToken != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", config.DatabaseURL, config.TursoAuthToken)
		}
		return "libsql", dsn
	case "postgres":
		return "postgres", config.DatabaseURL
	default:
		return "sqlite3", config.DBPath + "?_journal_mode=WAL&_foreign_keys=on"
	}
}

// TestLibsqlConnection tests a remote libsql database before startup commits
// to it.
func TestLibsqlConnection(databaseURL, authToken string, logger *logging.ChanneledLogger) error {
	start := time.Now()
	logger.Database().Debug("Testing libsql database connection", "databaseURL", databaseURL)

	connStr := databaseURL
	if authToken != "" {
		connStr = fmt.Sprintf("%s?authToken=%s", databaseURL, authToken)
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		logger.Database().Error("Failed to open libsql connection", "error", err.Error(), "databaseURL", databaseURL)
		return fmt.Errorf("failed to open connection: %w", err)
	}
	defer db.Close()

	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		logger.Database().Error("Libsql connection test query failed", "error", err.Error(), "databaseURL", databaseURL)
		return fmt.Errorf("connection test query failed: %w", err)
	}

	logger.Database().Info("Libsql connection test successful", "databaseURL", databaseURL, "duration", time.Since(start))
	return nil
}
