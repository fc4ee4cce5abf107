package errors

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   error
		status int
	}{
		{"validation", Validation("title", "cannot be empty"), ErrValidation, http.StatusBadRequest},
		{"not found", NotFound("habit", "abc"), ErrNotFound, http.StatusNotFound},
		{"persistence", Persistence("create habit", sql.ErrConnDone), ErrPersistence, http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("create: %w", Validation("weekDays", "out of range")), ErrValidation, http.StatusBadRequest},
		{"plain error", errors.New("boom"), nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.kind != nil && !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.kind)
			}
			if got := StatusCode(tt.err); got != tt.status {
				t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.status)
			}
		})
	}
}

func TestPersistenceKeepsKind(t *testing.T) {
	nf := NotFound("habit", "abc")
	if got := Persistence("toggle", nf); got != nf {
		t.Errorf("Persistence should pass through a NotFoundError, got %v", got)
	}
	if Persistence("noop", nil) != nil {
		t.Error("Persistence(nil) should be nil")
	}

	err := Persistence("get summary", sql.ErrTxDone)
	if !errors.Is(err, sql.ErrTxDone) {
		t.Errorf("PersistenceError should unwrap to the cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "get summary") {
		t.Errorf("PersistenceError message should include the op, got %q", err.Error())
	}
}

func TestValidationErrorMessage(t *testing.T) {
	if got := Validation("", "bad input").Error(); got != "bad input" {
		t.Errorf("got %q", got)
	}
	if got := Validation("title", "cannot be empty").Error(); got != "title: cannot be empty" {
		t.Errorf("got %q", got)
	}
	if got := NotFound("habit", "42").Error(); got != "habit not found: 42" {
		t.Errorf("got %q", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"simple error", errors.New("something went wrong"), "Error: something went wrong"},
		{"typed error", NotFound("habit", "x"), "Error: habit not found: x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	if got := Formatf("failed to load %s", "database"); got != "Error: failed to load database" {
		t.Errorf("Formatf() = %q", got)
	}
}

// TestFatal runs Fatal in a subprocess and checks the exit code and stderr
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}
