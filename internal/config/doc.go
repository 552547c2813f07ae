// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional YAML file. Environment variables
// use the LEXIS_ prefix with dots replaced by underscores.
package config
