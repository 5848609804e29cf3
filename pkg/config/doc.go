// Package config loads, validates, and watches the gateway configuration.
//
// Configuration comes from a YAML file, with defaults applied for anything
// unset and FSB_* environment variables taking precedence over the file.
// A process-wide singleton holds the active configuration; Watch re-reads
// the file on change for the settings that can move at runtime.
package config
