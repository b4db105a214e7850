package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"jobfeed-engine/internal/config"
	"jobfeed-engine/internal/secrets"
	"jobfeed-engine/internal/source"
)

const lockName = "jobfeed.lock"

// env is what every subcommand needs: the resolved config and a source client.
type env struct {
	dataDir string
	cfgPath string
	cfg     config.Config
	loadCfg func() (config.Config, error)
	tokens  *secrets.TokenCache
	client  *source.Client
}

func setup() (*env, error) {
	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = config.DataDir(nil)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return nil, fmt.Errorf("config bootstrap failed: %w", err)
	}

	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		if err := config.OverlayEnv(&cfg, nil); err != nil {
			return cfg, err
		}
		cfg.App.DataDir = dataDir
		cfg, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			log.Printf("[config] warning: %s", w)
		}
		if !vr.OK() {
			return cfg, fmt.Errorf("invalid config %s: %v", userCfgPath, vr.Errors)
		}
		return cfg, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		return nil, fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}

	// A 401 drops the cached token; another jobfeed may have replaced it.
	tokens := secrets.NewTokenCache(secrets.SourceTokenAccount(cfg))
	client, err := source.New(source.Config{
		BaseURL:        cfg.Source.BaseURL,
		Timeout:        cfg.SourceTimeout(),
		RatePerSec:     cfg.Source.RatePerSec,
		Burst:          cfg.Source.Burst,
		Token:          tokens.Token,
		OnUnauthorized: tokens.Invalidate,
	})
	if err != nil {
		return nil, err
	}

	return &env{
		dataDir: dataDir,
		cfgPath: userCfgPath,
		cfg:     cfg,
		loadCfg: loadCfg,
		tokens:  tokens,
		client:  client,
	}, nil
}

// lockDataDir takes the per-data-dir instance lock. ok is false when another
// process holds it.
func lockDataDir(dataDir string) (lock *flock.Flock, ok bool, err error) {
	lock = flock.New(filepath.Join(dataDir, lockName))
	ok, err = lock.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("lock %s: %w", dataDir, err)
	}
	return lock, ok, nil
}
