package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/clipflow-app/clipflow/internal/flagx"
	"github.com/clipflow-app/clipflow/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "2s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL   string         `json:"server_base_url"`
	ChannelID       string         `json:"channel_id"`
	DatabasePath    string         `json:"database_path"`
	PollInterval    timex.Duration `json:"poll_interval"`
	TriggerDebounce timex.Duration `json:"trigger_debounce"`
	EditCooldown    timex.Duration `json:"edit_cooldown"`
	CallTimeout     timex.Duration `json:"call_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies non-zero fields into the provided Config.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.ChannelID != "" {
		cfg.ChannelID = jc.ChannelID
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.PollInterval.Duration != 0 {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.TriggerDebounce.Duration != 0 {
		cfg.TriggerDebounce = time.Duration(jc.TriggerDebounce.Duration)
	}
	if jc.EditCooldown.Duration != 0 {
		cfg.EditCooldown = time.Duration(jc.EditCooldown.Duration)
	}
	if jc.CallTimeout.Duration != 0 {
		cfg.CallTimeout = time.Duration(jc.CallTimeout.Duration)
	}
}
