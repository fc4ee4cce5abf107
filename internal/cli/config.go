package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
)

type ConfigCmd struct {
	SetDb   ConfigSetDbCmd   `cmd:"" name:"set-db" help:"Store the database connection string in the OS keyring."`
	GetDb   ConfigGetDbCmd   `cmd:"" name:"get-db" help:"Show the stored database connection string."`
	ClearDb ConfigClearDbCmd `cmd:"" name:"clear-db" help:"Remove the stored database connection string."`
}

type ConfigSetDbCmd struct {
	ConnectionString string `arg:"" help:"SQLite path or PostgreSQL connection string."`
}

func (cmd *ConfigSetDbCmd) Run(ctx *Context) error {
	if storage.IsPostgres(cmd.ConnectionString) {
		if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			fmt.Println("Warning: connection string contains embedded credentials.")
			fmt.Println("It will be stored as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	fmt.Println(doneStyle.Render("✓") + " Connection string stored in OS keyring")
	return nil
}

type ConfigGetDbCmd struct{}

func (cmd *ConfigGetDbCmd) Run(ctx *Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'habitual config set-db' to store one")
		}
		return err
	}
	fmt.Println(maskPassword(connStr))
	return nil
}

type ConfigClearDbCmd struct{}

func (cmd *ConfigClearDbCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	fmt.Println(doneStyle.Render("✓") + " Connection string deleted from OS keyring")
	return nil
}

// maskPassword hides the password of a URL or key=value connection string
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		idx := strings.Index(connStr, "://")
		remaining := connStr[idx+3:]
		if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
			userInfo := remaining[:atIdx]
			if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
				return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + remaining[atIdx:]
			}
		}
		return connStr
	}

	parts := strings.Fields(connStr)
	for i, part := range parts {
		if k, _, ok := strings.Cut(part, "="); ok && strings.EqualFold(k, "password") {
			parts[i] = k + "=****"
		}
	}
	return strings.Join(parts, " ")
}
