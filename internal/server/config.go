// config.go - Startup configuration validation.
//
// Collects every problem with the environment-supplied settings before
// the process refuses to boot, instead of failing one variable at a time.
package server

import (
	"fmt"
	"strings"
)

// ConfigValidationError describes one rejected setting.
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// ConfigValidator accumulates validation errors.
type ConfigValidator struct {
	errors []ConfigValidationError
}

func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

func (v *ConfigValidator) AddError(field, message string) {
	v.errors = append(v.errors, ConfigValidationError{Field: field, Message: message})
}

func (v *ConfigValidator) HasErrors() bool {
	return len(v.errors) > 0
}

// ErrorString returns a formatted string of all errors.
func (v *ConfigValidator) ErrorString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d error(s):\n", len(v.errors)))
	for i, err := range v.errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// RequireNonEmpty flags a missing value.
func (v *ConfigValidator) RequireNonEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "must not be empty")
	}
}

// ValidateEndpoint flags an object-store endpoint the client would reject.
func (v *ConfigValidator) ValidateEndpoint(field, value string) {
	if _, _, err := normaliseEndpoint(value); err != nil {
		v.AddError(field, err.Error())
	}
}

// ValidateBaseURL flags a base URL without a usable scheme.
func (v *ConfigValidator) ValidateBaseURL(field, value string) {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		v.AddError(field, "must start with http:// or https://")
	}
}
