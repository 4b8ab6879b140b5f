package config

import (
	"encoding/json"
	"os"

	"github.com/gmanager/gmanager/internal/flagx"
	"github.com/gmanager/gmanager/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabaseDriver      string         `json:"database_driver"`
	DatabaseDSN         string         `json:"database_dsn"`
	LogLevel            string         `json:"log_level"`
	SessionTokenTTL     timex.Duration `json:"session_token_ttl"`
	ClipboardClearDelay timex.Duration `json:"clipboard_clear_delay"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags(),
//     falling back to the GMANAGER_CONFIG environment variable.
//  2. If empty, no JSON is loaded and the function returns.
//
// Keys absent from the file keep their current values. Panics on read or
// unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDriver != "" {
		cfg.DatabaseDriver = jc.DatabaseDriver
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.SessionTokenTTL.Duration != 0 {
		cfg.SessionTokenTTL = jc.SessionTokenTTL.Duration
	}
	if jc.ClipboardClearDelay.Duration != 0 {
		cfg.ClipboardClearDelay = jc.ClipboardClearDelay.Duration
	}
}
