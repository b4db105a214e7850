package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task once immediately and then on each tick until ctx is done.
// Runs never overlap; a tick that fires during a slow run is coalesced.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	if interval <= 0 {
		log.Printf("[%s] disabled (interval %s)", name, interval)
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	run := func() {
		if err := task(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[%s] error: %v", name, err)
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
