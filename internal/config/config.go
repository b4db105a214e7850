// internal/config/config.go
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Source struct {
		BaseURL        string  `yaml:"base_url" json:"base_url"`
		TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
		RatePerSec     float64 `yaml:"rate_per_sec" json:"rate_per_sec"`
		Burst          int     `yaml:"burst" json:"burst"`
		// TokenAccount names the keychain entry holding the bearer token.
		// Empty derives one from the base_url host.
		TokenAccount string `yaml:"token_account" json:"token_account"`
	} `yaml:"source" json:"source"`

	Feed struct {
		PageSize       int     `yaml:"page_size" json:"page_size"`
		PollSeconds    int     `yaml:"poll_seconds" json:"poll_seconds"`
		ScoreThreshold float64 `yaml:"score_threshold" json:"score_threshold"`
	} `yaml:"feed" json:"feed"`

	Store struct {
		SnapshotRetentionHours int `yaml:"snapshot_retention_hours" json:"snapshot_retention_hours"`
		PruneMinutes           int `yaml:"prune_minutes" json:"prune_minutes"`
	} `yaml:"store" json:"store"`
}

func Default() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.App.DataDir = "."
	cfg.Source.BaseURL = "http://localhost:8000/api"
	cfg.Source.TimeoutSeconds = 20
	cfg.Source.RatePerSec = 2
	cfg.Source.Burst = 4
	cfg.Feed.PageSize = 20
	cfg.Feed.PollSeconds = 30
	cfg.Feed.ScoreThreshold = 0.6
	cfg.Store.SnapshotRetentionHours = 72
	cfg.Store.PruneMinutes = 60
	return cfg
}

// Load reads path over the defaults, so omitted keys keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) SourceTimeout() time.Duration {
	return time.Duration(c.Source.TimeoutSeconds) * time.Second
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Feed.PollSeconds) * time.Second
}

func (c Config) SnapshotRetention() time.Duration {
	return time.Duration(c.Store.SnapshotRetentionHours) * time.Hour
}

func (c Config) PruneInterval() time.Duration {
	return time.Duration(c.Store.PruneMinutes) * time.Minute
}
