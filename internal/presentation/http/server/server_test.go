package server

import (
	"log/slog"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/securepent/securepent-go/internal/application/container"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
)

func TestNew(t *testing.T) {
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError + 4,
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}

	s := New("8089", &container.Container{Logger: logger})

	if s.Addr() != ":8089" {
		t.Errorf("expected listen address :8089, got %q", s.Addr())
	}
	if s.httpServer.Handler == nil {
		t.Error("expected a configured route handler")
	}
	if s.httpServer.ReadTimeout == 0 || s.httpServer.WriteTimeout == 0 {
		t.Error("expected read and write timeouts to be set")
	}
	if os.Getenv("GIN_MODE") == "" && gin.Mode() != gin.ReleaseMode {
		t.Errorf("expected release mode default, got %q", gin.Mode())
	}
}
