// Package config loads slumber's TOML configuration.
//
// Load resolves the file in this order:
//
//  1. The explicit path, when one is given
//  2. ~/.config/slumber/config.toml
//  3. Built-in defaults when the file does not exist
//
// Fields that are missing, empty, or non-positive fall back to their
// defaults. Paths get tilde expansion and are made absolute.
//
// Example config.toml:
//
//	device_bind = "127.0.0.1:8765"
//	storage = "sqlite"               # or "file"
//	storage_path = "~/.local/share/slumber/state.db"
//	log_path = "~/.local/share/slumber/slumber.log"
//	device_timeout_seconds = 10
//	fetch_attempts = 3
//	poll_seconds = 300
//	appearance = "dark"              # empty follows the terminal
//
// An empty storage_path lets the kv backend pick its own default location.
// Unknown storage or appearance values are rejected so typos do not silently
// change behavior.
package config
