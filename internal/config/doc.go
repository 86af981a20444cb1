// Package config handles loading and parsing Paddock configuration files.
//
// # Overview
//
// This package reads Paddock's TOML configuration to discover the mcapd API
// endpoint, the directory downloaded recordings land in, and the per-request
// HTTP timeout.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/paddock/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/paddock/config.toml
//   - API endpoint: 127.0.0.1:8000
//   - Download directory: ~/Downloads
//   - Request timeout: 15 seconds
//
// # TOML Format
//
// Example paddock config.toml:
//
//	api_base = "127.0.0.1:8000"
//	download_dir = "~/telemetry/mcap"
//	request_timeout_seconds = 30
//
// All fields are optional. Tilde expansion is performed automatically for
// paths.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error - defaults are used instead. Paddock
// should work out-of-the-box against a locally running mcapd without any
// configuration file existing.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		log.Fatalf("failed to load config: %v", err)
//	}
//	client, err := mcapd.NewClient(cfg.APIBase, cfg.RequestTimeout)
//
// The config package is read-only and stateless - it loads configuration once
// at startup and returns an immutable Config struct.
package config
