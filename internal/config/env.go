// Package config provides shared configuration utilities and the cabinet
// settings loaded from YAML.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// Environment variables read by the commands.
const (
	EnvConfigPath = "CLAW_CONFIG"
	EnvDifficulty = "CLAW_DIFFICULTY"
	EnvSeed       = "CLAW_SEED"
	EnvLogLevel   = "CLAW_LOG_LEVEL"
	EnvLogFile    = "CLAW_LOG_FILE"

	EnvSSHHost        = "SSH_HOST"
	EnvSSHPort        = "SSH_PORT"
	EnvSSHHostKey     = "SSH_HOST_KEY"
	EnvSSHDisplayHost = "SSH_DISPLAY_HOST" // Host shown on the web page
	EnvWebHost        = "WEB_HOST"
	EnvWebPort        = "WEB_PORT"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvUint64 parses the environment variable named by the key as an
// unsigned integer, returning fallback if it is unset or empty.
func GetEnvUint64(key string, fallback uint64) (uint64, error) {
	value := GetEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// NewLogger creates a logger writing to w at the level named by
// CLAW_LOG_LEVEL. Unknown levels fall back to info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(GetEnv(EnvLogLevel, "info"))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}
