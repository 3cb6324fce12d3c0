// Package config loads the library policy and the observability settings.
//
// Values start from DefaultConfig, are overlaid by an optional YAML file and then by
// LENDING_-prefixed environment variables, and are validated last.
package config
