package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prism/internal/config"
)

func TestNewFileWritesToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.log")
	logger, err := NewFile(config.LogConfig{Path: path, Level: "debug"})
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestNewFileRejectsBadLevel(t *testing.T) {
	_, err := NewFile(config.LogConfig{Path: "prism.log", Level: "noisy"})
	if err == nil {
		t.Fatal("expected error for unknown level")
	}
}
