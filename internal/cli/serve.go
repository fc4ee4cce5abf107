package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/julianstephens/habitual/internal/cache"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/lockfile"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/server"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tracker"
)

type ServeCmd struct {
	Port string `help:"HTTP port (default: HTTP_PORT or 3333)." default:""`
}

func (c *ServeCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	if c.Port != "" {
		cfg.HTTP.Port = c.Port
	}

	lockDir, err := serverLockDir(ctx.Store)
	if err != nil {
		return err
	}
	lock, err := lockfile.Acquire(lockfile.PathFor(lockDir), cfg.HTTP.Port)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release server lockfile", "error", err)
		}
	}()

	svc := ctx.Tracker
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewClient(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, summary cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer rdb.Close()
			svc = tracker.New(ctx.Store, tracker.WithCache(cache.NewSummaryCache(rdb, cfg.Redis.DefaultTTL.Duration())))
			logger.Info("Summary cache enabled", "addr", cfg.Redis.Addr)
		}
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("habitual listening on :%s (Ctrl+C to stop)\n", cfg.HTTP.Port)
	return server.New(cfg, svc).Run(sigCtx)
}

// serverLockDir places the lockfile next to a SQLite database, or in the
// config directory for PostgreSQL.
func serverLockDir(store storage.Provider) (string, error) {
	if storage.IsPostgres(store.GetConfigPath()) {
		return config.DefaultConfigDir()
	}
	return filepath.Dir(store.GetConfigPath()), nil
}
