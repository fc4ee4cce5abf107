package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/habitual/internal/constants"
)

func TestInitCreatesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	prev := Logger
	defer func() { Logger = prev }()

	if err := Init(Config{Dir: dir}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if Logger == nil {
		t.Fatal("Init() did not set the global logger")
	}

	Warn("disk almost full", "free", "1%")

	data, err := os.ReadFile(filepath.Join(dir, constants.LogFileName))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "disk almost full") {
		t.Errorf("log file missing message, got %q", string(data))
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger
	defer func() { Logger = prev }()

	Logger = New(&buf, log.WarnLevel, false)
	Debug("hidden debug")
	Info("hidden info")
	Warn("shown warn")
	Error("shown error", "habit", "h1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn level were written: %q", out)
	}
	if !strings.Contains(out, "shown warn") || !strings.Contains(out, "shown error") {
		t.Errorf("expected warn and error output, got %q", out)
	}
	if !strings.Contains(out, "habit=h1") {
		t.Errorf("expected key/value pair in output, got %q", out)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	Logger = nil
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}
