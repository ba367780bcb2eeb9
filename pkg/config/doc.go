// Package config provides configuration loading, defaulting, and validation
// for the Hermes proxy.
//
// Configuration is layered: YAML file values are filled in with defaults,
// then HERMES_* environment variables override both. The final configuration
// is validated before use, and a file watcher can re-load it at runtime so
// rate-limit parameters can be retuned without a restart.
package config
