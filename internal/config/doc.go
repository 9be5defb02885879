// Package config loads, validates, and normalizes ruv-dl configuration.
//
// Configuration comes from a TOML file resolved from an explicit path, the
// user config directory, or a project-local ruv-dl.toml, with embedded
// defaults filling anything unset. All path fields are tilde-expanded and
// made absolute during load so downstream code never deals with relative
// paths.
package config
