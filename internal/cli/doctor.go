package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/lockfile"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	if err := checkDatabase(ctx); err != nil {
		fmt.Printf("❌ Database: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database: OK (%s)\n", maskPassword(ctx.Store.GetConfigPath()))
	}

	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   Keyring unavailable; use --db or HABITUAL_DB instead\n")
	}

	if owner, err := checkServer(ctx); err != nil {
		fmt.Printf("⚠ Server lockfile: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else if owner != nil {
		fmt.Printf("✓ Server lockfile: held by pid %d on port %s\n", owner.PID, owner.Port)
	} else {
		fmt.Printf("✓ Server lockfile: none\n")
	}

	if err := checkClock(ctx); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDatabase(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Tracker.ListHabits(context.Background()); err != nil {
		return fmt.Errorf("failed to query habits: %w", err)
	}
	return nil
}

func checkServer(ctx *Context) (*lockfile.Owner, error) {
	dir, err := serverLockDir(ctx.Store)
	if err != nil {
		return nil, err
	}
	owner, err := lockfile.Read(lockfile.PathFor(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

// checkClock flags implausible system time. Days are tracked in UTC, so a
// local date that differs from the UTC date is reported as a note.
func checkClock(ctx *Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if local := now.Format("2006-01-02"); local != ctx.Tracker.Today().Format("2006-01-02") {
		fmt.Printf("   Note: local date %s differs from the tracked UTC day\n", local)
	}
	return nil
}
