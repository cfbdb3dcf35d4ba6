// Package config loads and validates project configuration from
// lumen.json or lumen.yaml, with environment-variable overrides
// (LUMEN_* variables) applied last.
package config
