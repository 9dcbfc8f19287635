package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitclick/internal/config"
	"gitclick/internal/logging"
)

func TestLogManagerInitialization(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := config.LogPath(tmpDir)

	lm, err := logging.NewManager(logging.Config{
		FilePath:   logPath,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
		Level:      "debug",
	})
	if err != nil {
		t.Fatalf("failed to create log manager: %v", err)
	}

	logger := lm.For("app")
	logger.Info("test message", "branch", "feature/anda-1-x")

	_ = lm.Sync()
	_ = lm.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if filepath.Base(logPath) != "gitclick.log" {
		t.Errorf("log file: got %q", filepath.Base(logPath))
	}
	for _, want := range []string{`"logger":"app"`, `"msg":"test message"`, `"branch":"feature/anda-1-x"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log line missing %s: %s", want, data)
		}
	}
}
