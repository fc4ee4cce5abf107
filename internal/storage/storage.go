package storage

import (
	"strings"

	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

// IsPostgres reports whether conn looks like a PostgreSQL connection string
// (URL or key=value DSN) rather than a SQLite file path.
func IsPostgres(conn string) bool {
	if strings.HasPrefix(conn, "postgres://") || strings.HasPrefix(conn, "postgresql://") {
		return true
	}
	for _, part := range strings.Fields(conn) {
		key, _, ok := strings.Cut(part, "=")
		if ok && (strings.EqualFold(key, "host") || strings.EqualFold(key, "dbname")) {
			return true
		}
	}
	return false
}

// New returns the provider matching conn without opening it
func New(conn string) Provider {
	if IsPostgres(conn) {
		return postgres.New(conn)
	}
	return sqlite.NewStore(conn)
}
