// Package poll re-issues the current feed fetch on a fixed wall-clock
// interval, independent of user activity.
package poll

import (
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"jobfeed-engine/internal/metrics"
)

const DefaultInterval = 30 * time.Second

// Refresher is satisfied by *feed.Session.
type Refresher interface {
	Refresh()
}

type Status struct {
	Running    bool      `json:"running"`
	Interval   string    `json:"interval"`
	Ticks      int64     `json:"ticks"`
	LastTickAt time.Time `json:"last_tick_at,omitzero"`
	NextTickAt time.Time `json:"next_tick_at,omitzero"`
}

type Poller struct {
	target   Refresher
	interval time.Duration
	cron     *cron.Cron
	entry    cron.EntryID

	mu      sync.Mutex
	running bool
	ticks   atomic.Int64
	last    atomic.Value // time.Time
}

func New(target Refresher, interval time.Duration) (*Poller, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("poll interval %s is below 1s", interval)
	}
	p := &Poller{
		target:   target,
		interval: interval,
		cron: cron.New(cron.WithLogger(
			cron.PrintfLogger(log.New(os.Stderr, "[poll] ", log.LstdFlags)))),
	}
	id, err := p.cron.AddFunc("@every "+interval.String(), p.Tick)
	if err != nil {
		return nil, fmt.Errorf("poll schedule: %w", err)
	}
	p.entry = id
	return p, nil
}

func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.cron.Start()
	log.Printf("[poll] every %s", p.interval)
}

// Stop halts the schedule. A tick already running is not waited for since
// Refresh only issues a background fetch.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.cron.Stop()
}

// Tick refreshes the target once and records it.
func (p *Poller) Tick() {
	p.target.Refresh()
	p.ticks.Add(1)
	p.last.Store(time.Now())
	metrics.PollTicksTotal.Inc()
}

func (p *Poller) Status() Status {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()

	st := Status{
		Running:  running,
		Interval: p.interval.String(),
		Ticks:    p.ticks.Load(),
	}
	if t, ok := p.last.Load().(time.Time); ok {
		st.LastTickAt = t
	}
	if running {
		st.NextTickAt = p.cron.Entry(p.entry).Next
	}
	return st
}
