package schema

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every schema defect detected while resolving
// a layout. These are programming errors and never transient.
var ErrConfiguration = errors.New("invalid record configuration")

// ConfigError pinpoints a schema defect.
type ConfigError struct {
	Schema string
	Field  string // empty for schema-level defects
	Reason string
	Err    error // optional, more specific sentinel
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s: %s", ErrConfiguration, e.Schema, e.Reason)
	}
	return fmt.Sprintf("%v: %s.%s: %s", ErrConfiguration, e.Schema, e.Field, e.Reason)
}

// Is matches ErrConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Errorf builds a ConfigError for a field.
func Errorf(schemaName, field, format string, args ...any) *ConfigError {
	return &ConfigError{Schema: schemaName, Field: field, Reason: fmt.Sprintf(format, args...)}
}
