package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if Logger.GetLevel() != log.WarnLevel {
		t.Errorf("default level = %v, want warn", Logger.GetLevel())
	}

	Warn("Test warning message", "habit", "Read")
	if _, err := os.Stat(filepath.Join(logDir, "habitual.log")); err != nil {
		t.Errorf("log file was not written: %v", err)
	}
}

func TestInitLevels(t *testing.T) {
	configDir := t.TempDir()

	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Init debug failed: %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("debug level = %v, want debug", Logger.GetLevel())
	}

	if err := Init(Config{Level: "error", ConfigDir: configDir}); err != nil {
		t.Fatalf("Init with level failed: %v", err)
	}
	if Logger.GetLevel() != log.ErrorLevel {
		t.Errorf("explicit level = %v, want error", Logger.GetLevel())
	}

	if err := Init(Config{Level: "chatty", ConfigDir: configDir}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitWriter(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, log.InfoLevel)
	defer func() { Logger = nil }()

	Debug("hidden")
	Info("reminders scheduled", "count", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %q", out)
	}
	if !strings.Contains(out, "reminders scheduled") || !strings.Contains(out, "count=2") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
