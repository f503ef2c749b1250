package logger

import (
	"os"
	"strconv"
	"strings"
)

// LogConfig holds logging settings. Values come from LOG_* environment variables.
type LogConfig struct {
	// trace, debug, info, warn, error, fatal
	Level string
	// json, text
	Format string
	// file, stdout, both
	Output string

	MaxSize    int  // MB per file before rotation
	MaxBackups int  // rotated files kept
	MaxAge     int  // days
	Compress   bool // gzip rotated files

	LogPath   string
	AppFile   string
	AuditFile string
	ErrorFile string

	// Comma separated module names to keep; empty or "*" keeps all.
	FilterModules string
}

// DefaultConfig returns the environment-dependent defaults overridden by LOG_* variables.
func DefaultConfig() *LogConfig {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	cfg := &LogConfig{
		Level:      "info",
		Format:     "json",
		Output:     "both",
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     7,
		Compress:   true,
		LogPath:    "./logs",
		AppFile:    "app.log",
		AuditFile:  "audit.log",
		ErrorFile:  "error.log",
	}
	if env == "development" {
		cfg.Level = "debug"
		cfg.Format = "text"
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		cfg.Output = strings.ToLower(v)
	}
	if n, ok := positiveInt(os.Getenv("LOG_MAX_SIZE")); ok {
		cfg.MaxSize = n
	}
	if n, ok := positiveInt(os.Getenv("LOG_MAX_BACKUPS")); ok {
		cfg.MaxBackups = n
	}
	if n, ok := positiveInt(os.Getenv("LOG_MAX_AGE")); ok {
		cfg.MaxAge = n
	}
	if v := os.Getenv("LOG_COMPRESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Compress = b
		}
	}
	if v := os.Getenv("LOG_PATH"); v != "" {
		cfg.LogPath = v
	}
	cfg.FilterModules = os.Getenv("LOG_FILTER_MODULES")

	return cfg
}

func positiveInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
