package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/securepent/securepent-go/internal/application/services"
	"github.com/securepent/securepent-go/internal/domain/admin"
	"github.com/securepent/securepent-go/internal/domain/lead"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/security"
)

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError + 4,
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

// memLeadRepo is an in-memory lead.Repository for handler tests.
type memLeadRepo struct {
	contacts []*lead.Contact
}

func (r *memLeadRepo) Store(c *lead.Contact) error {
	c.ID = int64(len(r.contacts) + 1)
	copied := *c
	r.contacts = append(r.contacts, &copied)
	return nil
}

func (r *memLeadRepo) FindByUUID(uuid string) (*lead.Contact, error) {
	for _, c := range r.contacts {
		if c.UUID == uuid {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memLeadRepo) List(status lead.Status, limit, offset int) ([]*lead.Contact, int, error) {
	return r.contacts, len(r.contacts), nil
}

func (r *memLeadRepo) UpdateStatus(uuid string, status lead.Status) (*lead.Contact, error) {
	for _, c := range r.contacts {
		if c.UUID == uuid {
			c.Status = status
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

type discardEmail struct{}

func (discardEmail) SendLeadNotification(*lead.Contact) error { return nil }

// memUserRepo backs AuthService in middleware tests.
type memUserRepo struct {
	user *admin.User
}

func (r *memUserRepo) FindByUsername(username string) (*admin.User, error) {
	if r.user != nil && r.user.Username == username {
		copied := *r.user
		return &copied, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(id int64) (*admin.User, error) {
	if r.user != nil && r.user.ID == id {
		copied := *r.user
		return &copied, nil
	}
	return nil, nil
}

func (r *memUserRepo) Count() (int, error)          { return 1, nil }
func (r *memUserRepo) Create(u *admin.User) error   { r.user = u; return nil }
func (r *memUserRepo) RecordLoginSuccess(int64) error { return nil }

func (r *memUserRepo) RecordLoginFailure(id int64, threshold int, lockUntil time.Time) (int, bool, error) {
	r.user.FailedAttempts++
	if r.user.FailedAttempts >= threshold {
		r.user.LockedUntil = &lockUntil
		return r.user.FailedAttempts, true, nil
	}
	return r.user.FailedAttempts, false, nil
}

func (r *memUserRepo) UpdatePassword(id int64, hash string) error { r.user.PasswordHash = hash; return nil }
func (r *memUserRepo) UpdateUsername(id int64, name string) error { r.user.Username = name; return nil }
func (r *memUserRepo) UsernameTaken(string, int64) (bool, error)  { return false, nil }

type memAuditRepo struct{ entries []*admin.AuditEntry }

func (r *memAuditRepo) Store(e *admin.AuditEntry) error { r.entries = append(r.entries, e); return nil }
func (r *memAuditRepo) List(admin.AuditFilter) ([]*admin.AuditEntry, error) {
	return r.entries, nil
}

func newContactRouter(t *testing.T) (*gin.Engine, *memLeadRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := testLogger(t)
	repo := &memLeadRepo{}
	svc := services.NewContactService(repo, discardEmail{}, services.NewAuditService(&memAuditRepo{}, logger), logger)
	h := NewContactHandlers(svc, logger)

	r := gin.New()
	r.POST("/api/v1/contact", h.PostContact)
	r.GET("/api/v1/contact/status/:uuid", h.GetContactStatus)
	return r, repo
}

func postJSON(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostContact(t *testing.T) {
	r, repo := newContactRouter(t)

	w := postJSON(r, "/api/v1/contact", gin.H{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
		"message":   "We need an external penetration test next quarter.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || !security.ValidUUID(resp.ID) {
		t.Errorf("unexpected response body: %s", w.Body.String())
	}
	if len(repo.contacts) != 1 {
		t.Errorf("expected contact stored, got %d", len(repo.contacts))
	}
}

func TestPostContactValidationFailure(t *testing.T) {
	r, repo := newContactRouter(t)

	w := postJSON(r, "/api/v1/contact", gin.H{
		"firstName": "J",
		"lastName":  "Doe",
		"email":     "not-an-email",
		"message":   "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp struct {
		Details []string `json:"details"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Details) == 0 {
		t.Error("expected field-level details in error response")
	}
	if len(repo.contacts) != 0 {
		t.Error("rejected submission must not be stored")
	}
}

func TestGetContactStatus(t *testing.T) {
	r, _ := newContactRouter(t)

	w := postJSON(r, "/api/v1/contact", gin.H{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
		"message":   "We need an external penetration test next quarter.",
	})
	var created struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contact/status/"+created.ID, nil)
	lookup := httptest.NewRecorder()
	r.ServeHTTP(lookup, req)
	if lookup.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", lookup.Code)
	}

	var status struct {
		Success bool `json:"success"`
		Data    struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(lookup.Body.Bytes(), &status)
	if !status.Success || status.Data.Status != "new" {
		t.Errorf("unexpected status payload: %s", lookup.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/contact/status/not-a-uuid", nil)
	bad := httptest.NewRecorder()
	r.ServeHTTP(bad, req)
	if bad.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed reference, got %d", bad.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/contact/status/"+security.GenerateUUID(), nil)
	missing := httptest.NewRecorder()
	r.ServeHTTP(missing, req)
	if missing.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown reference, got %d", missing.Code)
	}
}

func newAuthRouter(t *testing.T) (*gin.Engine, *services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := testLogger(t)

	hash, err := security.HashPassword("correct-password", 4)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	users := &memUserRepo{user: &admin.User{
		ID:           1,
		Username:     "admin",
		PasswordHash: hash,
		Role:         admin.RoleSuperAdmin,
	}}
	audit := services.NewAuditService(&memAuditRepo{}, logger)
	authService := services.NewAuthService(users, audit, logger, services.AuthConfig{
		JWTSecret:     "handler-test-secret",
		TokenExpiry:   time.Hour,
		MaxAttempts:   5,
		LockoutWindow: 15 * time.Minute,
		BcryptCost:    4,
	})

	h := NewAuthHandlers(authService, logger)
	r := gin.New()
	r.POST("/api/v1/auth/login", h.PostLogin)
	protected := r.Group("/api/v1/auth")
	protected.Use(h.AuthMiddleware())
	protected.GET("/me", h.GetMe)
	return r, authService
}

func TestLoginEndpoint(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := postJSON(r, "/api/v1/auth/login", gin.H{"username": "admin", "password": "correct-password"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Token == "" {
		t.Fatal("expected a token in the response")
	}

	// Wrong password
	w = postJSON(r, "/api/v1/auth/login", gin.H{"username": "admin", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", w.Code)
	}

	// Missing fields
	w = postJSON(r, "/api/v1/auth/login", gin.H{"username": "admin"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing password, got %d", w.Code)
	}
}

func TestLoginLockoutEndpoint(t *testing.T) {
	r, _ := newAuthRouter(t)

	for i := 0; i < 4; i++ {
		postJSON(r, "/api/v1/auth/login", gin.H{"username": "admin", "password": "nope"})
	}
	w := postJSON(r, "/api/v1/auth/login", gin.H{"username": "admin", "password": "nope"})
	if w.Code != http.StatusLocked {
		t.Fatalf("expected 423 on lockout, got %d", w.Code)
	}

	var resp struct {
		LockedUntil string `json:"lockedUntil"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.LockedUntil == "" {
		t.Error("expected lockedUntil in lockout response")
	}
}

func TestAuthMiddleware(t *testing.T) {
	r, authService := newAuthRouter(t)

	// No token
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	// Garbage token
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with garbage token, got %d", w.Code)
	}

	// Real token
	result, err := authService.Login("admin", "correct-password", "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.User.Username != "admin" {
		t.Errorf("expected admin user, got %q", resp.User.Username)
	}
}
