package constants

import "time"

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	Version            = "v0.3.0"

	// DateFormat is the persisted and displayed calendar day format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Weekday bounds, Sunday=0
	MinWeekDay = 0
	MaxWeekDay = 6

	// HTTP defaults
	DefaultHTTPPort        = "3333"
	DefaultShutdownTimeout = 10 * time.Second

	// Summary cache
	SummaryCacheKey        = "habitual:summary"
	DefaultSummaryCacheTTL = 60 * time.Second

	// Server lockfile
	ServerLockfileName = "habitual-server.lock"

	// Log rotation
	LogFileName      = "habitual.log"
	LogMaxSizeMB     = 10
	LogMaxBackups    = 3
	LogMaxAgeDays    = 28
	PostgresMaxConns = 25
)
