package config

import "time"

// Config holds runtime settings for the GManager CLI.
//
// Fields:
//   - DatabaseDriver: storage backend, "sqlite" or "postgres".
//   - DatabaseDSN: database location; a file path for sqlite, a full DSN
//     for postgres.
//   - LogLevel: minimum level emitted by the structured logger.
//   - SessionTokenTTL: validity window of tokens minted on unlock.
//   - ClipboardClearDelay: how long copied secrets stay on the clipboard.
type Config struct {
	DatabaseDriver      string
	DatabaseDSN         string
	LogLevel            string
	SessionTokenTTL     time.Duration
	ClipboardClearDelay time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "gmanager.db"
	c.LogLevel = "info"
	c.SessionTokenTTL = 15 * time.Minute
	c.ClipboardClearDelay = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
