// Package config provides configuration structures and utilities for crewguard.
// It defines request timeouts, the declared identity, probe paths, report
// preferences, and per-site overrides loaded from a YAML file.
package config
