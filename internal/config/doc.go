// Package config provides configuration management for the alyssa tool.
//
// The configuration lives at ~/.alyssa/config.yaml and is created with
// defaults on first use. Every value can be overridden with an environment
// variable carrying the ALYSSA_ prefix, nested fields joined by underscores:
//
//   - ALYSSA_CHARACTER_NAME=Mira
//   - ALYSSA_ENGINE_SEED=42
//   - ALYSSA_STORAGE_DRIVER=sqlite3
//   - ALYSSA_LOGGING_LEVEL=debug
package config
