package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	lg, closeFn, err := Setup(path, "info")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	lg.Debug("hidden")
	lg.Info("node added", "id", 3)
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got := string(b)
	if !strings.Contains(got, `msg="node added"`) || !strings.Contains(got, "id=3") {
		t.Fatalf("expected info record, got %q", got)
	}
	if strings.Contains(got, "hidden") {
		t.Fatalf("expected debug record to be filtered, got %q", got)
	}
}

func TestSetup_EmptyPathDiscards(t *testing.T) {
	lg, closeFn, err := Setup("  ", "")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	lg.Info("nowhere")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestParseLevel_RejectsUnknown(t *testing.T) {
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
	if _, _, err := Setup(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Fatalf("expected setup to reject level")
	}
}
