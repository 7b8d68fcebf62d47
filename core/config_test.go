package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvHost, EnvPort, EnvDevMode, EnvLogFile, EnvLogLevel, EnvDebug,
		EnvStylesFile, EnvDBPath, EnvOutputDir, EnvShutdownTimeout, EnvProfileRetentionDays,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := LoadConfig()
	if cfg.Address() != "127.0.0.1:8189" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.LogLevel != DefaultLogLevel || cfg.Debug || cfg.DevMode {
		t.Errorf("unexpected logging defaults: %+v", cfg)
	}
	if cfg.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.ProfileRetentionDays != DefaultProfileRetentionDays {
		t.Errorf("ProfileRetentionDays = %d", cfg.ProfileRetentionDays)
	}
	if cfg.StylesFile != "" {
		t.Errorf("StylesFile = %q, want empty", cfg.StylesFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(EnvHost, "0.0.0.0")
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvDebug, "yes")
	t.Setenv(EnvShutdownTimeout, "5")
	t.Setenv(EnvProfileRetentionDays, "0")

	cfg := LoadConfig()
	if cfg.Address() != "0.0.0.0:9000" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want lower-cased warn", cfg.LogLevel)
	}
	if cfg.EffectiveLogLevel() != "debug" {
		t.Errorf("EffectiveLogLevel() = %q, want debug when ZIMAGE_NODES_DEBUG is set", cfg.EffectiveLogLevel())
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()
	stylesFile := filepath.Join(dir, "styles.yaml")
	if err := os.WriteFile(stylesFile, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{"port too low", func(c *Config) { c.Port = 0 }, ErrCodeInvalidValue},
		{"port too high", func(c *Config) { c.Port = 70000 }, ErrCodeInvalidValue},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }, ErrCodeInvalidValue},
		{"zero timeout", func(c *Config) { c.ShutdownTimeout = 0 }, ErrCodeInvalidValue},
		{"negative retention", func(c *Config) { c.ProfileRetentionDays = -1 }, ErrCodeInvalidValue},
		{"blank db path", func(c *Config) { c.DBPath = " " }, ErrCodeInvalidValue},
		{"missing styles file", func(c *Config) { c.StylesFile = filepath.Join(dir, "nope.yaml") }, ErrCodeStylesFileMissing},
		{"styles file is a directory", func(c *Config) { c.StylesFile = dir }, ErrCodeStylesFileMissing},
		{"existing styles file", func(c *Config) { c.StylesFile = stylesFile }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			cfg := LoadConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if got := GetErrorCode(err); got != tt.code {
				t.Errorf("Validate() code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestConfig_EnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		OutputDir: filepath.Join(root, "out", "images"),
		DBPath:    filepath.Join(root, "data", "zimage.db"),
		LogFile:   filepath.Join(root, "logs", "app.log"),
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() = %v", err)
	}
	for _, dir := range []string{cfg.OutputDir, filepath.Dir(cfg.DBPath), filepath.Dir(cfg.LogFile)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", dir)
		}
	}
}
