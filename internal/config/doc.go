// Package config loads runtime configuration for the GManager CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config,
//     or the GMANAGER_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-b string   storage backend driver (sqlite or postgres)
//	-d string   database DSN; file path for sqlite
//	-l string   log level (debug, info, warn, error)
//	-t int      session token TTL (minutes)
//	-i int      clipboard clear delay (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "database_driver": "sqlite",
//	  "database_dsn": "gmanager.db",
//	  "log_level": "info",
//	  "session_token_ttl": "15m",
//	  "clipboard_clear_delay": "30s"
//	}
//
// Primary API
//
//   - type Config                     — holds storage, logging and session settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
