// Package config loads, normalizes, and validates the TOML configuration.
//
// All classifier thresholds are configuration rather than constants; the
// shipped defaults live in defaults.go and the embedded sample file. Paths
// are expanded (including ~) during Load so downstream code never sees
// unresolved values.
package config
