// Package config provides configuration structures and utilities for siteaudit.
// It defines the scan options, the .siteaudit YAML file with per-site business
// metadata, and the environment variables that select the AI provider.
package config
