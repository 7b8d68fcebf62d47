package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigError_Error(t *testing.T) {
	withAction := &ConfigError{Code: "X", Message: "Test message", Action: "Take this action"}
	if got := withAction.Error(); got != "Test message. Take this action" {
		t.Errorf("Error() = %q", got)
	}

	bare := &ConfigError{Code: "X", Message: "Test message only"}
	if got := bare.Error(); got != "Test message only" {
		t.Errorf("Error() = %q", got)
	}
}

func TestConfigErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		code     string
		contains string
	}{
		{"env file", ErrEnvFileMissing(".env"), ErrCodeEnvFileMissing, ".env"},
		{"invalid value", ErrInvalidValue(EnvPort, "abc", "a port"), ErrCodeInvalidValue, "abc"},
		{"styles file", ErrStylesFileMissing("/tmp/none.yaml"), ErrCodeStylesFileMissing, "none.yaml"},
		{"directory", ErrDirectoryNotUsable(EnvOutputDir, "/ro", "read-only"), ErrCodeDirectoryNotUsable, "read-only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("Error() = %q, expected to contain %q", tt.err.Error(), tt.contains)
			}
			if tt.err.Action == "" {
				t.Error("expected an actionable instruction")
			}
		})
	}
}

func TestIsConfigError(t *testing.T) {
	wrapped := fmt.Errorf("startup: %w", ErrStylesFileMissing("x.yaml"))

	cfgErr, ok := IsConfigError(wrapped)
	if !ok {
		t.Fatal("IsConfigError() = false for a wrapped ConfigError")
	}
	if cfgErr.Code != ErrCodeStylesFileMissing {
		t.Errorf("Code = %s", cfgErr.Code)
	}
	if got := GetErrorCode(wrapped); got != ErrCodeStylesFileMissing {
		t.Errorf("GetErrorCode() = %q", got)
	}

	if _, ok := IsConfigError(errors.New("plain")); ok {
		t.Error("IsConfigError() = true for a plain error")
	}
	if got := GetErrorCode(errors.New("plain")); got != "" {
		t.Errorf("GetErrorCode() = %q, want empty", got)
	}
}
