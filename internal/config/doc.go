// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and STOREBOOST_ environment variables.
// It provides type-safe access to the settings needed by the server, the CLI
// and every storage and model backend.
package config
