// Package config provides centralized default values for the SecurePent backend
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err != nil {
			return
		}
		log.Println("Loaded configuration overrides from .env file")
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%g (default: %g)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if valStr := os.Getenv(key); valStr != "" {
		parts := strings.Split(valStr, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	MaxBodyBytes       int64

	// Database Configuration
	DBDriver       string // sqlite3 | libsql | postgres
	DBPath         string
	DatabaseURL    string
	TursoAuthToken string

	// Database Pool
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int
	SlowQueryThreshold       time.Duration
	DashboardCacheTTL        time.Duration

	// Auth Configuration
	JWTSecret          string
	JWTExpiry          time.Duration
	LoginMaxAttempts   int
	LoginLockoutWindow time.Duration
	AdminUsername      string
	AdminPassword      string
	BcryptCost         int

	// CORS Configuration
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRPS        float64
	RateLimitBurst      int
	LoginRateLimitRPS   float64
	LoginRateLimitBurst int

	// Email Configuration
	ResendAPIKey     string
	EmailFrom        string
	EmailFromName    string
	AdminNotifyEmail string

	// Logging
	LogDirectory string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "3001")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", 64*1024))

	// Database Configuration
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "data/securepent.db")
	DatabaseURL = getEnvString("DATABASE_URL", "")
	TursoAuthToken = getEnvString("TURSO_AUTH_TOKEN", "")

	// Database Pool
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)
	DashboardCacheTTL = getEnvDuration("DASHBOARD_CACHE_TTL", time.Minute)

	// Auth Configuration
	JWTSecret = getEnvString("JWT_SECRET", "")
	JWTExpiry = getEnvDuration("JWT_EXPIRY", 24*time.Hour)
	LoginMaxAttempts = getEnvInt("LOGIN_MAX_ATTEMPTS", 5)
	LoginLockoutWindow = getEnvDuration("LOGIN_LOCKOUT_WINDOW", 15*time.Minute)
	AdminUsername = getEnvString("ADMIN_USERNAME", "admin")
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")
	BcryptCost = getEnvInt("BCRYPT_COST", 12)

	// CORS Configuration
	CORSAllowedOrigins = getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	})

	// Rate Limiting
	RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", 10)
	RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 30)
	LoginRateLimitRPS = getEnvFloat("LOGIN_RATE_LIMIT_RPS", 0.2)
	LoginRateLimitBurst = getEnvInt("LOGIN_RATE_LIMIT_BURST", 5)

	// Email Configuration
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@securepent.com")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "SecurePent")
	AdminNotifyEmail = getEnvString("ADMIN_NOTIFY_EMAIL", "")

	// Logging
	LogDirectory = getEnvString("LOG_DIR", "logs")
}
