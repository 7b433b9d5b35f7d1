// Package config handles configuration loading and management for shotlog.
//
// It provides functionality for:
//   - Loading configuration from .shotlog.yaml or .shotlog.json files
//   - Schema validation of configuration files
//   - Default configuration values
//   - Merging file, environment and flag settings
package config
