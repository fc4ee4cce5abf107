package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withProcesses(t *testing.T, procs map[int]string) {
	t.Helper()
	oldFind := findProcessFunc
	oldPid := getpidFunc
	t.Cleanup(func() {
		findProcessFunc = oldFind
		getpidFunc = oldPid
	})
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := procs[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
	getpidFunc = func() int { return 4242 }
}

func TestAcquireAndRelease(t *testing.T) {
	withProcesses(t, nil)
	path := PathFor(t.TempDir())

	lock, err := Acquire(path, "3333")
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}

	owner, err := Read(path)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if owner.Port != "3333" || owner.PID != 4242 {
		t.Errorf("unexpected owner: %+v", owner)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("lockfile should be removed, stat err = %v", err)
	}
}

func TestAcquireRefusesLiveServer(t *testing.T) {
	withProcesses(t, map[int]string{100: "habitual"})
	path := PathFor(t.TempDir())
	if err := os.WriteFile(path, []byte("3333|100"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Acquire(path, "4444")
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Acquire() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestAcquireReplacesStaleLockfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		procs   map[int]string
	}{
		{"dead pid", "3333|100", nil},
		{"pid reused by another program", "3333|100", map[int]string{100: "postgres"}},
		{"malformed", "garbage", nil},
		{"port out of range", "70000|100", map[int]string{100: "habitual"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withProcesses(t, tt.procs)
			path := filepath.Join(t.TempDir(), "server.lock")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			lock, err := Acquire(path, "5555")
			if err != nil {
				t.Fatalf("Acquire() failed: %v", err)
			}
			defer lock.Release()

			owner, err := Read(path)
			if err != nil {
				t.Fatalf("Read() failed: %v", err)
			}
			if owner.Port != "5555" {
				t.Errorf("expected new owner on port 5555, got %+v", owner)
			}
		})
	}
}
