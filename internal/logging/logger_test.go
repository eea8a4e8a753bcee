package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_CreatesDirAndLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	log, err := New("probe", dir, "debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}

	log.Info("health_ok")
	_ = log.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "probe.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(b)
	if !strings.Contains(line, `"msg":"health_ok"`) || !strings.Contains(line, `"app":"probe"`) || !strings.Contains(line, `"ts":`) {
		t.Fatalf("unexpected log line %q", line)
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	dir := t.TempDir()
	log, err := New("api", dir, "chatty")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("hidden")
	log.Info("shown")
	_ = log.Sync()

	b, _ := os.ReadFile(filepath.Join(dir, "api.log"))
	if strings.Contains(string(b), "hidden") || !strings.Contains(string(b), "shown") {
		t.Fatalf("level filtering wrong: %q", b)
	}
}
