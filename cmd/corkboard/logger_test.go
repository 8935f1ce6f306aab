package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"corkboard/internal/config"
)

func TestSetupTUILogger_WritesToFile(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "corkboard.log")

	result, err := SetupTUILogger(logPath, slog.LevelInfo, config.Default().LogRotation)
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	defer func() { _ = result.Close() }()

	if result.FilePath != logPath {
		t.Errorf("FilePath = %q, want %q", result.FilePath, logPath)
	}

	result.Logger.Info("test message", "key", "value")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(content), "test message") {
		t.Errorf("log file should contain 'test message', got: %s", content)
	}
	if !strings.Contains(string(content), `"key":"value"`) {
		t.Errorf("log file should contain key=value, got: %s", content)
	}
}

func TestSetupTUILogger_CreatesMissingDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, ".corkboard", "corkboard.log")

	result, err := SetupTUILogger(logPath, slog.LevelInfo, config.Default().LogRotation)
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	defer func() { _ = result.Close() }()

	result.Logger.Info("hello")
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestSetupTUILogger_DoesNotWriteToStderr(t *testing.T) {
	// Stderr output would corrupt the TUI display, so the file logger must
	// never touch it.
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "corkboard.log")

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	result, err := SetupTUILogger(logPath, slog.LevelInfo, config.Default().LogRotation)
	if err != nil {
		os.Stderr = oldStderr
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	defer func() { _ = result.Close() }()

	result.Logger.Info("this should not appear on stderr")

	_ = w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	if buf.Len() > 0 {
		t.Errorf("TUI logger wrote to stderr: %s", buf.String())
	}
}

func TestSetupTUILogger_RespectsLogLevel(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "corkboard.log")

	result, err := SetupTUILogger(logPath, slog.LevelWarn, config.Default().LogRotation)
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	defer func() { _ = result.Close() }()

	result.Logger.Info("info message")
	result.Logger.Warn("warn message")

	content, _ := os.ReadFile(logPath)
	if strings.Contains(string(content), "info message") {
		t.Error("INFO message should be filtered out at WARN level")
	}
	if !strings.Contains(string(content), "warn message") {
		t.Error("WARN message should appear")
	}
}

func TestSetupTUILoggerWithWriter_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer

	logger := SetupTUILoggerWithWriter(&buf, slog.LevelInfo)
	logger.Info("test message", "foo", "bar")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("output should contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, `"foo":"bar"`) {
		t.Errorf("output should contain foo=bar, got: %s", output)
	}
}
