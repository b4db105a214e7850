package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/feed"
	"jobfeed-engine/internal/httpapi"
	"jobfeed-engine/internal/poll"
	"jobfeed-engine/internal/scheduler"
	"jobfeed-engine/internal/store"
)

const envShutdownToken = "JOBFEED_SHUTDOWN_TOKEN"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feed engine and its local HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	cfg := e.cfg

	lock, ok, err := lockDataDir(e.dataDir)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("another jobfeed is already using %s", e.dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(cfg)

	dbPath := filepath.Join(e.dataDir, "jobfeed.db")
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", dbPath, err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := events.NewHub()
	session := feed.New(e.client,
		feed.WithStore(db),
		feed.WithNotifier(hub),
		feed.WithThreshold(cfg.Feed.ScoreThreshold),
		feed.WithPageSize(cfg.Feed.PageSize),
	)
	if err := session.Start(ctx); err != nil {
		return err
	}

	poller, err := poll.New(session, cfg.PollInterval())
	if err != nil {
		return err
	}
	poller.Start()
	defer poller.Stop()

	mux := httpapi.NewMux(httpapi.Deps{
		Session:     session,
		Source:      e.client,
		Poller:      poller,
		DB:          db,
		Token:       e.tokens,
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: e.cfgPath,
		LoadCfg:     e.loadCfg,
	})

	shutdownToken := os.Getenv(envShutdownToken)
	if shutdownToken == "" {
		if shutdownToken, err = randomToken(16); err != nil {
			return err
		}
	}
	mux.HandleFunc("/shutdown", shutdownHandler(shutdownToken, stop))

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           httpapi.Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("engine listening on http://%s (db=%s source=%s)", addr, dbPath, cfg.Source.BaseURL)
	// Supervisors read the token from stdout.
	fmt.Printf("%s=%s\n", envShutdownToken, shutdownToken)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// SSE streams end when the hub closes; otherwise Shutdown waits on them.
		hub.Close()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	g.Go(func() error {
		retention := cfg.SnapshotRetention()
		scheduler.Every(gctx, cfg.PruneInterval(), "prune", func(ctx context.Context) error {
			n, err := db.PruneSnapshots(ctx, time.Now().Add(-retention))
			if n > 0 {
				log.Printf("[prune] removed %d snapshots older than %s", n, retention)
			}
			return err
		})
		return nil
	})

	err = g.Wait()
	poller.Stop()
	stop()
	session.Wait()
	log.Printf("engine stopped")
	return err
}
