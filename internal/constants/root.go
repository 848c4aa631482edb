package constants

import "time"

const (
	AppName            = "autoplan"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/autoplan/autoplan.db"
	DefaultEnvFileName = "autoplan.env"
	EnvPrefix          = "AUTOPLAN_"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Postgres connection pool
	PostgresMaxOpenConns    = 25
	PostgresMaxIdleConns    = 25
	PostgresConnMaxLifetime = 5 * time.Minute
)
