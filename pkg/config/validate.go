package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g. "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and returned together.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. An empty backend pool is a configuration
// error caught here, at startup, never at request time.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateBackends(cfg.Backends)...)
	errs = append(errs, validateStream(&cfg.Stream)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateTransferLog(&cfg.TransferLog)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{"server.listen_address", "must not be empty"})
	} else if !strings.Contains(cfg.ListenAddress, ":") {
		errs = append(errs, FieldError{"server.listen_address", "must be in host:port format"})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{"server.read_timeout", "must not be negative"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{"server.write_timeout", "must not be negative"})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{"server.max_header_bytes", "must not be negative"})
	}

	return errs
}

func validateBackends(backends []BackendConfig) []FieldError {
	var errs []FieldError

	if len(backends) == 0 {
		errs = append(errs, FieldError{"backends", "at least one backend is required"})
		return errs
	}

	seen := make(map[string]bool, len(backends))
	for i, b := range backends {
		field := fmt.Sprintf("backends[%d]", i)

		if b.BaseURL == "" {
			errs = append(errs, FieldError{field + ".base_url", "must not be empty"})
		} else if u, err := url.Parse(b.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, FieldError{field + ".base_url", "must be an absolute URL"})
		}
		if b.Timeout < 0 {
			errs = append(errs, FieldError{field + ".timeout", "must not be negative"})
		}
		if seen[b.Name] {
			errs = append(errs, FieldError{field + ".name", fmt.Sprintf("duplicate backend name %q", b.Name)})
		}
		seen[b.Name] = true
	}

	return errs
}

func validateStream(cfg *StreamConfig) []FieldError {
	var errs []FieldError

	if cfg.ChunkSize <= 0 {
		errs = append(errs, FieldError{"stream.chunk_size", "must be positive"})
	}
	if cfg.SessionMaxIdle < 0 {
		errs = append(errs, FieldError{"stream.session_max_idle", "must not be negative"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{"telemetry.logging.level",
			fmt.Sprintf("unknown level %q (expected debug, info, warn, or error)", cfg.Logging.Level)})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{"telemetry.logging.format",
			fmt.Sprintf("unknown format %q (expected json or text)", cfg.Logging.Format)})
	}

	return errs
}

func validateTransferLog(cfg *TransferLogConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return nil
	}
	if cfg.Path == "" {
		errs = append(errs, FieldError{"transfer_log.path", "must not be empty when enabled"})
	}
	if cfg.Buffer <= 0 {
		errs = append(errs, FieldError{"transfer_log.buffer", "must be positive"})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{"transfer_log.retention_days", "must not be negative"})
	}

	return errs
}
