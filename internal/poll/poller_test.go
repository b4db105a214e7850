package poll

import (
	"sync/atomic"
	"testing"
	"time"
)

type counter struct{ n atomic.Int32 }

func (c *counter) Refresh() { c.n.Add(1) }

func TestTickRecordsStatus(t *testing.T) {
	c := &counter{}
	p, err := New(c, DefaultInterval)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if st := p.Status(); st.Running || st.Ticks != 0 || !st.LastTickAt.IsZero() {
		t.Fatalf("initial status = %+v", st)
	}

	p.Tick()
	p.Tick()
	st := p.Status()
	if c.n.Load() != 2 || st.Ticks != 2 {
		t.Errorf("refreshes = %d, ticks = %d, want 2", c.n.Load(), st.Ticks)
	}
	if st.LastTickAt.IsZero() || st.Interval != "30s" {
		t.Errorf("status = %+v", st)
	}
}

func TestStartStop(t *testing.T) {
	c := &counter{}
	p, err := New(c, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Start()
	p.Start()
	if !p.Status().Running {
		t.Fatal("not running after Start")
	}

	deadline := time.After(5 * time.Second)
	for c.n.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no tick within 5s on a 1s schedule")
		case <-time.After(50 * time.Millisecond):
		}
	}
	p.Stop()
	p.Stop()
	if p.Status().Running {
		t.Error("running after Stop")
	}
}

func TestRejectsShortInterval(t *testing.T) {
	if _, err := New(&counter{}, 500*time.Millisecond); err == nil {
		t.Error("expected error for sub-second interval")
	}
}
