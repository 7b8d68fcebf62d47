package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeEnvFileMissing     = "ENV_FILE_MISSING"
	ErrCodeInvalidValue       = "INVALID_VALUE"
	ErrCodeStylesFileMissing  = "STYLES_FILE_MISSING"
	ErrCodeDirectoryNotUsable = "DIRECTORY_NOT_USABLE"
)

// ErrEnvFileMissing returns an error for a missing .env file.
func ErrEnvFileMissing(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeEnvFileMissing,
		Message: fmt.Sprintf("Configuration file not found: %s", path),
		Action:  "Copy example.env to .env to override the defaults",
	}
}

// ErrInvalidValue returns an error for an environment variable holding an
// unusable value.
func ErrInvalidValue(varName, value, expected string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidValue,
		Message: fmt.Sprintf("Invalid %s '%s'", varName, value),
		Action:  fmt.Sprintf("Set %s to %s", varName, expected),
	}
}

// ErrStylesFileMissing returns an error when ZIMAGE_STYLES_FILE points nowhere.
func ErrStylesFileMissing(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeStylesFileMissing,
		Message: fmt.Sprintf("Styles file not found: %s", path),
		Action:  "Fix ZIMAGE_STYLES_FILE or unset it to use the built-in styles",
	}
}

// ErrDirectoryNotUsable returns an error when a configured directory cannot
// be created or written.
func ErrDirectoryNotUsable(varName, path, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeDirectoryNotUsable,
		Message: fmt.Sprintf("Directory %s for %s is not usable: %s", path, varName, reason),
		Action:  fmt.Sprintf("Point %s at a writable directory", varName),
	}
}

// IsConfigError checks if an error is, or wraps, a ConfigError and returns it if so.
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError.
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
