package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/feed"
	"jobfeed-engine/internal/poll"
	"jobfeed-engine/internal/store"
	"jobfeed-engine/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Browse the live feed in the terminal",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	cfg := e.cfg

	// Logs would tear the alt screen, so they go to a file.
	logFile, err := tea.LogToFile(filepath.Join(e.dataDir, "watch.log"), "")
	if err != nil {
		return err
	}
	defer logFile.Close()

	hub := events.NewHub()
	opts := []feed.Option{
		feed.WithNotifier(hub),
		feed.WithThreshold(cfg.Feed.ScoreThreshold),
		feed.WithPageSize(cfg.Feed.PageSize),
	}

	// Share the snapshot cache only when no engine owns the data dir.
	lock, ok, err := lockDataDir(e.dataDir)
	if err != nil {
		return err
	}
	if ok {
		defer func() { _ = lock.Unlock() }()
		db, err := store.Open(filepath.Join(e.dataDir, "jobfeed.db"))
		if err != nil {
			return err
		}
		defer db.Close()
		opts = append(opts, feed.WithStore(db))
	} else {
		log.Printf("[watch] %s is in use by another jobfeed; running without the snapshot cache", e.dataDir)
	}

	updates := hub.Subscribe()
	session := feed.New(e.client, opts...)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := session.Start(ctx); err != nil {
		return err
	}

	poller, err := poll.New(session, cfg.PollInterval())
	if err != nil {
		return err
	}
	poller.Start()

	_, runErr := tea.NewProgram(tui.NewApp(session, updates), tea.WithAltScreen()).Run()

	poller.Stop()
	cancel()
	hub.Close()
	session.Wait()
	if runErr != nil {
		return fmt.Errorf("terminal ui: %w", runErr)
	}
	return nil
}
