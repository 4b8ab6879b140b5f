package config

import (
	"flag"
	"os"
	"time"

	"github.com/gmanager/gmanager/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   storage backend driver, sqlite or postgres (default from Config)
//	-d string   database DSN; file path for sqlite (default from Config)
//	-l string   log level: debug, info, warn, error (default from Config)
//	-t int      session token TTL in minutes (default from Config)
//	-i int      clipboard clear delay in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-l", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDriver, "b", cfg.DatabaseDriver, "storage backend driver (sqlite or postgres)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (file path for sqlite)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	tokenTTL := fs.Int("t", int(cfg.SessionTokenTTL.Minutes()), "session token TTL (in minutes)")
	clearDelay := fs.Int("i", int(cfg.ClipboardClearDelay.Seconds()), "clipboard clear delay (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionTokenTTL = time.Duration(*tokenTTL) * time.Minute
	cfg.ClipboardClearDelay = time.Duration(*clearDelay) * time.Second
}
