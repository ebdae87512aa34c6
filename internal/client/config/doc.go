// Package config loads runtime configuration for the ClipFlow CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string    base URL of the backend REST endpoint
//	-ch string   channel id to verify and join on startup
//	-d string    path to the local metadata database
//	-i int       clipboard poll interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "2s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "channel_id": "my-channel",
//	  "database_path": "clipflow.db",
//	  "poll_interval": "2s",
//	  "trigger_debounce": "3s",
//	  "edit_cooldown": "10s",
//	  "call_timeout": "10s"
//	}
//
// Primary API
//
//   - type Config                     — holds server, channel and interval settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
