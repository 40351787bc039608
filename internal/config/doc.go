// Package config loads the service configuration from environment variables,
// command-line flags, an optional JSON file, and built-in defaults, merging
// them into a single validated StructuredConfig.
package config
