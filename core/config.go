// Package core holds the configuration atoms shared by every other package:
// environment parsing, configuration errors, exit codes and shutdown hooks.
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Environment variables read by LoadConfig.
const (
	EnvHost                 = "ZIMAGE_HOST"
	EnvPort                 = "ZIMAGE_PORT"
	EnvDevMode              = "DEV_MODE"
	EnvLogFile              = "ZIMAGE_LOG_FILE"
	EnvLogLevel             = "ZIMAGE_LOG_LEVEL"
	EnvDebug                = "ZIMAGE_NODES_DEBUG"
	EnvStylesFile           = "ZIMAGE_STYLES_FILE"
	EnvDBPath               = "ZIMAGE_DB_PATH"
	EnvOutputDir            = "ZIMAGE_OUTPUT_DIR"
	EnvShutdownTimeout      = "ZIMAGE_SHUTDOWN_TIMEOUT"
	EnvProfileRetentionDays = "ZIMAGE_PROFILE_RETENTION_DAYS"
)

// Defaults applied when the matching variable is unset.
const (
	DefaultHost                 = "127.0.0.1"
	DefaultPort                 = 8189
	DefaultLogFile              = "logs/zimage-power.log"
	DefaultLogLevel             = "info"
	DefaultDBPath               = "data/zimage.db"
	DefaultOutputDir            = "output"
	DefaultShutdownTimeout      = 30 * time.Second
	DefaultProfileRetentionDays = 180
)

// Config holds the runtime configuration of the node server.
type Config struct {
	Host     string
	Port     int
	DevMode  bool
	LogFile  string
	LogLevel string

	// Debug mirrors ZIMAGE_NODES_DEBUG and forces debug-level logging.
	Debug bool

	// StylesFile replaces the embedded presets when non-empty.
	StylesFile string

	DBPath    string
	OutputDir string

	ShutdownTimeout      time.Duration
	ProfileRetentionDays int
}

// LoadConfig reads the configuration from the environment. Callers load any
// .env file beforehand. The result is not validated; see Validate.
func LoadConfig() *Config {
	return &Config{
		Host:                 GetEnvOrDefault(EnvHost, DefaultHost),
		Port:                 ParseIntEnv(EnvPort, DefaultPort),
		DevMode:              ParseBoolEnv(EnvDevMode, false),
		LogFile:              GetEnvOrDefault(EnvLogFile, DefaultLogFile),
		LogLevel:             strings.ToLower(GetEnvOrDefault(EnvLogLevel, DefaultLogLevel)),
		Debug:                ParseBoolEnv(EnvDebug, false),
		StylesFile:           strings.TrimSpace(os.Getenv(EnvStylesFile)),
		DBPath:               GetEnvOrDefault(EnvDBPath, DefaultDBPath),
		OutputDir:            GetEnvOrDefault(EnvOutputDir, DefaultOutputDir),
		ShutdownTimeout:      ParseDurationEnv(EnvShutdownTimeout, DefaultShutdownTimeout),
		ProfileRetentionDays: ParseIntEnv(EnvProfileRetentionDays, DefaultProfileRetentionDays),
	}
}

// Address returns the host:port pair the HTTP server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EffectiveLogLevel returns "debug" when Debug is set and LogLevel otherwise.
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

// Validate checks every field and returns the first problem as a *ConfigError.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidValue(EnvPort, fmt.Sprint(c.Port), "a port between 1 and 65535")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidValue(EnvLogLevel, c.LogLevel, "one of debug, info, warn, error")
	}
	if c.ShutdownTimeout <= 0 {
		return ErrInvalidValue(EnvShutdownTimeout, c.ShutdownTimeout.String(), "a positive number of seconds")
	}
	if c.ProfileRetentionDays < 0 {
		return ErrInvalidValue(EnvProfileRetentionDays, fmt.Sprint(c.ProfileRetentionDays), "0 (keep forever) or a positive number of days")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return ErrInvalidValue(EnvDBPath, c.DBPath, "a file path")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return ErrInvalidValue(EnvOutputDir, c.OutputDir, "a directory path")
	}
	if c.StylesFile != "" {
		if info, err := os.Stat(c.StylesFile); err != nil || info.IsDir() {
			return ErrStylesFileMissing(c.StylesFile)
		}
	}
	return nil
}

// EnsureDirectories creates the output directory and the parent directories
// of the database and log files.
func (c *Config) EnsureDirectories() error {
	dirs := []struct {
		env  string
		path string
	}{
		{EnvOutputDir, c.OutputDir},
		{EnvDBPath, filepath.Dir(c.DBPath)},
		{EnvLogFile, filepath.Dir(c.LogFile)},
	}
	for _, d := range dirs {
		if d.path == "" || d.path == "." {
			continue
		}
		if err := os.MkdirAll(d.path, 0o755); err != nil {
			return ErrDirectoryNotUsable(d.env, d.path, err.Error())
		}
	}
	return nil
}
