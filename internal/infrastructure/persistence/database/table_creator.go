// Package database provides schema instantiation
package database

import (
	"fmt"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

var tablesSQLite = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT UNIQUE NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		company TEXT,
		job_title TEXT,
		message TEXT NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		referrer TEXT,
		status TEXT DEFAULT 'new' CHECK(status IN ('new', 'read', 'replied', 'archived')),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		read_at DATETIME,
		archived_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS analytics_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT UNIQUE NOT NULL,
		visitor_id TEXT NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		referrer TEXT,
		landing_page TEXT,
		device_type TEXT,
		browser TEXT,
		os TEXT,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		ended_at DATETIME,
		page_views INTEGER DEFAULT 0,
		total_time_seconds INTEGER DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		event_data TEXT,
		page_url TEXT,
		element_id TEXT,
		element_class TEXT,
		element_text TEXT,
		x_position INTEGER,
		y_position INTEGER,
		scroll_depth INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES analytics_sessions(session_id)
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		email TEXT,
		role TEXT DEFAULT 'admin' CHECK(role IN ('admin', 'superadmin')),
		last_login DATETIME,
		failed_attempts INTEGER DEFAULT 0,
		locked_until DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS admin_audit_log (
		id TEXT PRIMARY KEY,
		admin_id INTEGER,
		action TEXT NOT NULL,
		entity_type TEXT,
		entity_id TEXT,
		ip_address TEXT,
		user_agent TEXT,
		details TEXT,
		severity TEXT DEFAULT 'info',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

var tablesPostgres = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id BIGSERIAL PRIMARY KEY,
		uuid TEXT UNIQUE NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		company TEXT,
		job_title TEXT,
		message TEXT NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		referrer TEXT,
		status TEXT DEFAULT 'new' CHECK(status IN ('new', 'read', 'replied', 'archived')),
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		read_at TIMESTAMPTZ,
		archived_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS analytics_sessions (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT UNIQUE NOT NULL,
		visitor_id TEXT NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		referrer TEXT,
		landing_page TEXT,
		device_type TEXT,
		browser TEXT,
		os TEXT,
		started_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		ended_at TIMESTAMPTZ,
		page_views INTEGER DEFAULT 0,
		total_time_seconds INTEGER DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES analytics_sessions(session_id),
		event_type TEXT NOT NULL,
		event_data TEXT,
		page_url TEXT,
		element_id TEXT,
		element_class TEXT,
		element_text TEXT,
		x_position INTEGER,
		y_position INTEGER,
		scroll_depth INTEGER,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		email TEXT,
		role TEXT DEFAULT 'admin' CHECK(role IN ('admin', 'superadmin')),
		last_login TIMESTAMPTZ,
		failed_attempts INTEGER DEFAULT 0,
		locked_until TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS admin_audit_log (
		id TEXT PRIMARY KEY,
		admin_id BIGINT,
		action TEXT NOT NULL,
		entity_type TEXT,
		entity_id TEXT,
		ip_address TEXT,
		user_agent TEXT,
		details TEXT,
		severity TEXT DEFAULT 'info',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_contacts_uuid ON contacts(uuid)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts(status)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_session_id ON analytics_sessions(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_visitor_id ON analytics_sessions(visitor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON analytics_sessions(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_session_id ON analytics_events(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_event_type ON analytics_events(event_type)`,
	`CREATE INDEX IF NOT EXISTS idx_events_created_at ON analytics_events(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_admin_id ON admin_audit_log(admin_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_created_at ON admin_audit_log(created_at)`,
}

// CreateSchema executes all necessary queries to build the tables and indexes
// for the connection's dialect.
func (tc *TableCreator) CreateSchema(db *DB) error {
	tables := tablesSQLite
	if db.Postgres() {
		tables = tablesPostgres
	}

	for _, tableSQL := range tables {
		if _, err := db.DB.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.DB.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedAdminUser idempotently creates the bootstrap admin account when the
// admin_users table is empty. The caller supplies the already-hashed password.
func (tc *TableCreator) SeedAdminUser(db *DB, username, passwordHash string) (bool, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	_, err := db.Exec(
		`INSERT INTO admin_users (username, password_hash, role) VALUES (?, ?, ?)`,
		username, passwordHash, "superadmin",
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert bootstrap admin: %w", err)
	}
	return true, nil
}
