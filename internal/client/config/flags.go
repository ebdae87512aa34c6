package config

import (
	"flag"
	"os"
	"time"

	"github.com/clipflow-app/clipflow/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string    base URL of the backend server (default from Config)
//	-ch string   channel id to verify and join on startup
//	-d string    path to the local metadata database
//	-i int       clipboard poll interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-ch", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend server")
	fs.StringVar(&cfg.ChannelID, "ch", cfg.ChannelID, "channel id to join on startup")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local metadata database")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "clipboard poll interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
