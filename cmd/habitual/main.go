package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/tracker"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `name:"db" help:"SQLite path or PostgreSQL connection string. Overrides HABITUAL_DB and the OS keyring." type:"string"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize habitual storage."`
	Migrate cli.MigrateCmd `cmd:"" help:"Run database migrations."`
	Serve   cli.ServeCmd   `cmd:"" help:"Serve the HTTP API."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit   cli.HabitCmd   `cmd:"" help:"Manage habits."`
	Day     cli.DayCmd     `cmd:"" help:"Show the habits of a day."`
	Toggle  cli.ToggleCmd  `cmd:"" help:"Toggle a habit's completion for a day."`
	Summary cli.SummaryCmd `cmd:"" help:"Show completed versus possible habits per tracked day."`
	Backup  cli.BackupCmd  `cmd:"" help:"Snapshot or restore the SQLite database."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Config  cli.ConfigCmd  `cmd:"" help:"Manage the stored database connection."`
}

// commands that open the store themselves or never touch it
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"config":  true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track recurring habits scheduled on weekdays"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	command := strings.Fields(ctx.Command())[0]

	cfg, err := config.Load()
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:  cfg.Log.Debug,
		Dir:    cfg.Log.Dir,
		Stderr: command == "serve",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	conn, err := resolveConnection(cfg)
	if err != nil {
		apperrors.Fatal(err)
	}
	cfg.DB.Conn = conn
	logger.Debug("Resolved database", "command", command, "postgres", storage.IsPostgres(conn))

	store := storage.New(conn)
	defer store.Close()

	if !skipLoad[command] {
		if err := store.Load(); err != nil {
			store.Close()
			apperrors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Store:   store,
		Tracker: tracker.New(store),
		Config:  cfg,
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

// resolveConnection applies --db, then HABITUAL_DB, then the keyring, then
// the default SQLite path. Passwords are refused on the command line.
func resolveConnection(cfg config.Config) (string, error) {
	if CLI.DB != "" && storage.IsPostgres(CLI.DB) {
		if _, err := postgres.ValidateConnString(CLI.DB); errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return "", fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed on the command line; " +
				"store it with 'habitual config set-db' or use ~/.pgpass")
		}
	}

	explicit := CLI.DB
	if explicit == "" {
		explicit = cfg.DB.Conn
	}
	conn := keyring.ResolveConnection(explicit, constants.DefaultConfigPath)
	if storage.IsPostgres(conn) {
		return conn, nil
	}
	return config.ExpandHome(conn)
}
