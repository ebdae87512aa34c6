package config

import "time"

// Config holds runtime settings for the ClipFlow CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST endpoint.
//   - ChannelID: channel to verify and join on startup (optional).
//   - DatabasePath: path to the local sqlite metadata database.
//   - PollInterval: how often the monitor samples the OS clipboard.
//   - TriggerDebounce: minimum gap between accepted non-forced triggers.
//   - EditCooldown: how long local edits suppress automatic syncing.
//   - CallTimeout: per-request deadline for backend and clipboard calls.
//
// Units: interval fields are time.Duration (e.g., 2*time.Second).
type Config struct {
	ServerBaseURL   string
	ChannelID       string
	DatabasePath    string
	PollInterval    time.Duration
	TriggerDebounce time.Duration
	EditCooldown    time.Duration
	CallTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.ChannelID = ""
	c.DatabasePath = "clipflow.db"
	c.PollInterval = 2 * time.Second
	c.TriggerDebounce = 3 * time.Second
	c.EditCooldown = 10 * time.Second
	c.CallTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
