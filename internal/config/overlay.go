// config/overlay.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment overrides, applied after the file is loaded.
const (
	EnvDataDir     = "JOBFEED_DATA_DIR"
	EnvSourceURL   = "JOBFEED_SOURCE_URL"
	EnvPort        = "JOBFEED_PORT"
	EnvPollSeconds = "JOBFEED_POLL_SECONDS"
)

// OverlayEnv applies set variables to cfg. A malformed number is an error
// rather than silently ignored.
func OverlayEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvSourceURL)); v != "" {
		cfg.Source.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvDataDir)); v != "" {
		cfg.App.DataDir = v
	}
	if v := strings.TrimSpace(getenv(EnvPort)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		cfg.App.Port = n
	}
	if v := strings.TrimSpace(getenv(EnvPollSeconds)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPollSeconds, err)
		}
		cfg.Feed.PollSeconds = n
	}
	return nil
}

// DataDir resolves the data directory before any config file is read.
func DataDir(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvDataDir)); v != "" {
		return v
	}
	return "."
}
