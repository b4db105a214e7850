package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if u, err := url.Parse(cfg.Source.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, "source.base_url must be an absolute http(s) URL")
	}
	if cfg.Source.TimeoutSeconds <= 0 {
		errs = append(errs, "source.timeout_seconds must be > 0")
	}
	if cfg.Source.RatePerSec < 0 {
		errs = append(errs, "source.rate_per_sec must be >= 0")
	}
	if cfg.Feed.PageSize <= 0 || cfg.Feed.PageSize > 100 {
		errs = append(errs, "feed.page_size must be 1..100")
	}
	if cfg.Feed.PollSeconds <= 0 {
		errs = append(errs, "feed.poll_seconds must be > 0")
	}
	if cfg.Feed.ScoreThreshold < 0 || cfg.Feed.ScoreThreshold > 1 {
		errs = append(errs, "feed.score_threshold must be within 0..1")
	}
	if cfg.Store.SnapshotRetentionHours < 0 {
		errs = append(errs, "store.snapshot_retention_hours must be >= 0")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
