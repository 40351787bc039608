// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Viktor Lebedev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The token signing key and the database DSN have no sensible defaults, so
// their absence is a fatal misconfiguration.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return ErrMissingTokenSignKey
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrMissingDatabaseDSN
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrMissingServerAddress
	}

	return nil
}
