// Package config loads CLI client settings: defaults, then an optional
// JSON/YAML file given with -c/-config, then command-line flags.
package config
