package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration values are missing after all sources have been merged.
var (
	// ErrMissingTokenSignKey indicates that no token signing secret was
	// supplied by any configuration source. The service cannot issue or
	// verify bearer tokens without it.
	ErrMissingTokenSignKey = errors.New("token sign key is not configured")
	// ErrMissingDatabaseDSN indicates that no database connection string
	// was supplied.
	ErrMissingDatabaseDSN = errors.New("database DSN is not configured")
	// ErrMissingServerAddress indicates that the HTTP listen address
	// resolved to an empty string.
	ErrMissingServerAddress = errors.New("server address is not configured")
)
