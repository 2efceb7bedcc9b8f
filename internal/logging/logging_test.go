package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/tomz197/invaders/internal/config"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	log, err := New(config.LoggingConfig{Level: "debug", Format: "console", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info("wave cleared")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "wave cleared") {
		t.Errorf("log file missing message: %q", data)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	log, err := New(config.LoggingConfig{Level: "info", Format: "json", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info("ship hit")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"ship hit"`) {
		t.Errorf("expected a JSON line, got %q", data)
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	log, err := New(config.LoggingConfig{Level: "chatty", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled at the fallback level")
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be enabled at the fallback level")
	}
}
