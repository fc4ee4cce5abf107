// Package lockfile keeps two servers from running against the same database.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid

	// ErrAlreadyRunning is returned when a live server owns the lockfile
	ErrAlreadyRunning = errors.New("server already running")
)

// Lock is a held server lockfile. The file holds "port|pid".
type Lock struct {
	path string
}

// Owner describes the process recorded in a lockfile
type Owner struct {
	Port string
	PID  int
}

// PathFor returns the lockfile path used for a database living in dir
func PathFor(dir string) string {
	return filepath.Join(dir, constants.ServerLockfileName)
}

// Acquire writes the lockfile at path. It fails with ErrAlreadyRunning when
// the file names a live habitual process, and replaces stale files.
func Acquire(path, port string) (*Lock, error) {
	owner, err := Read(path)
	switch {
	case err == nil:
		if alive(owner.PID) {
			return nil, fmt.Errorf("%w on port %s (pid %d)", ErrAlreadyRunning, owner.Port, owner.PID)
		}
		logger.Warn("Replacing stale server lockfile", "path", path, "pid", owner.PID)
	case !errors.Is(err, os.ErrNotExist):
		logger.Warn("Ignoring malformed server lockfile", "path", path, "error", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	content := fmt.Sprintf("%s|%d", port, getpidFunc())
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lockfile
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Read parses the lockfile at path
func Read(path string) (Owner, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Owner{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Owner{}, errors.New("lockfile is malformed")
	}
	port := strings.TrimSpace(parts[0])
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return Owner{}, errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return Owner{}, fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Owner{}, errors.New("invalid process ID in lockfile")
	}
	return Owner{Port: port, PID: pid}, nil
}

func alive(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
