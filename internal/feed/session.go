// Package feed holds the cached feed for one viewer and keeps it in step
// with the query: fetches run in the background, the last result stays on
// screen while a new one loads, and only completions for the current query
// key are applied.
package feed

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/fallback"
	"jobfeed-engine/internal/metrics"
	"jobfeed-engine/internal/query"
)

var ErrAlreadyStarted = errors.New("feed: session already started")

// Fetcher is satisfied by *source.Client.
type Fetcher interface {
	FetchJobs(ctx context.Context, q domain.FeedQuery) (domain.FeedResult, error)
}

// SnapshotStore persists the last good result per key and the last query.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, key string, res domain.FeedResult, fetchedAt time.Time) error
	LoadSnapshot(ctx context.Context, key string) (domain.FeedResult, time.Time, bool, error)
	SaveQuery(ctx context.Context, q domain.FeedQuery) error
	LoadQuery(ctx context.Context) (domain.FeedQuery, bool, error)
}

// Notifier is satisfied by *events.Hub.
type Notifier interface {
	Publish(evt string)
}

type Option func(*Session)

func WithStore(st SnapshotStore) Option { return func(s *Session) { s.store = st } }

func WithNotifier(n Notifier) Option { return func(s *Session) { s.notify = n } }

// WithThreshold sets the score threshold quoted by the degraded placeholder.
func WithThreshold(t float64) Option { return func(s *Session) { s.threshold = t } }

func WithPageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

type Session struct {
	fetcher   Fetcher
	store     SnapshotStore
	notify    Notifier
	threshold float64
	pageSize  int
	now       func() time.Time

	sf singleflight.Group
	wg sync.WaitGroup

	mu        sync.Mutex
	ctx       context.Context
	started   bool
	touched   bool // query changed before Start; the persisted one is not restored
	q         query.State
	result    *domain.FeedResult
	updatedAt time.Time
	errMsg    string
	stale     bool   // result came from the snapshot store and is not yet revalidated
	issued    uint64 // seq of the newest fetch
	applied   uint64 // seq of the newest applied fetch
}

func New(f Fetcher, opts ...Option) *Session {
	s := &Session{
		fetcher:   f,
		threshold: domain.DefaultScoreThreshold,
		pageSize:  domain.DefaultPageSize,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.q = query.New(s.pageSize)
	return s
}

// Start restores the persisted query and its snapshot, then issues the
// mount fetch. A query already changed through a transition before Start is
// kept instead of the persisted one. Fetches issued by the session use ctx;
// once it is done their completions are dropped.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	st := s.q
	before := st.Key()
	touched := s.touched
	s.mu.Unlock()

	var (
		snap    *domain.FeedResult
		snapAt  time.Time
		snapKey string
	)
	if s.store != nil {
		if !touched {
			if q, ok, err := s.store.LoadQuery(ctx); err != nil {
				log.Printf("[feed] restore query: %v", err)
			} else if ok {
				st = query.Restore(q, s.pageSize)
			}
		}
		snapKey = st.Key()
		res, at, ok, err := s.store.LoadSnapshot(ctx, snapKey)
		if err != nil {
			log.Printf("[feed] restore snapshot: %v", err)
		} else if ok {
			snap, snapAt = &res, at
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	if s.q.Key() != before {
		// a transition landed while the store was read; it wins
		st = s.q
	}
	if st.Key() != snapKey {
		snap = nil
	}
	s.started = true
	s.ctx = ctx
	s.q = st
	if snap != nil {
		s.result = snap
		s.updatedAt = snapAt
		s.stale = true
		s.q.Observe(snap.Pagination.TotalPages)
		log.Printf("[feed] restored snapshot for %s (%d jobs, fetched %s)",
			st.Key(), len(snap.Jobs), snapAt.Format(time.RFC3339))
	}
	s.issueLocked()
	return nil
}

func (s *Session) SetFilter(aboveOnly bool) {
	_ = s.transition(func(st *query.State) error {
		st.SetFilter(aboveOnly)
		return nil
	})
}

func (s *Session) SetSort(by domain.SortBy) error {
	return s.transition(func(st *query.State) error { return st.SetSort(by) })
}

// SetPage fails with query.ErrPageOutOfRange outside [1, totalPages] of the
// last applied result.
func (s *Session) SetPage(p int) error {
	return s.transition(func(st *query.State) error { return st.SetPage(p) })
}

func (s *Session) NextPage() error {
	return s.transition(func(st *query.State) error { return st.SetPage(st.Query().Page + 1) })
}

func (s *Session) PrevPage() error {
	return s.transition(func(st *query.State) error { return st.SetPage(st.Query().Page - 1) })
}

// LastPage jumps to the final page of the last applied result.
func (s *Session) LastPage() error {
	return s.transition(func(st *query.State) error { return st.SetPage(st.TotalPages()) })
}

// Refresh re-issues the fetch for the current key. It is a no-op before Start.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.issueLocked()
}

// Query returns the current view parameters.
func (s *Session) Query() domain.FeedQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Query()
}

// Wait blocks until every issued fetch has been applied or dropped.
func (s *Session) Wait() { s.wg.Wait() }

func (s *Session) transition(fn func(*query.State) error) error {
	s.mu.Lock()
	before := s.q.Key()
	if err := fn(&s.q); err != nil {
		s.mu.Unlock()
		return err
	}
	q := s.q.Query()
	changed := s.q.Key() != before
	started := s.started
	ctx := s.ctx
	if changed && started {
		s.issueLocked()
	}
	if changed && !started {
		s.touched = true
	}
	s.mu.Unlock()

	if !changed {
		return nil
	}
	if started && s.store != nil {
		if err := s.store.SaveQuery(ctx, q); err != nil {
			log.Printf("[feed] persist query: %v", err)
		}
	}
	s.publish(events.TypeQueryChanged, q)
	return nil
}

// issueLocked must be called with s.mu held.
func (s *Session) issueLocked() {
	s.issued++
	seq := s.issued
	key := s.q.Key()
	q := s.q.Query()
	ctx := s.ctx
	s.wg.Add(1)
	go s.fetch(ctx, seq, key, q)
}

func (s *Session) fetch(ctx context.Context, seq uint64, key string, q domain.FeedQuery) {
	defer s.wg.Done()

	v, err, _ := s.sf.Do(key, func() (any, error) {
		return s.fetcher.FetchJobs(ctx, q)
	})
	if ctx.Err() != nil {
		metrics.FeedFetchesTotal.WithLabelValues("canceled").Inc()
		return
	}

	var res domain.FeedResult
	if err != nil {
		log.Printf("[feed] fetch %s: %v", key, err)
		res = fallback.Degraded(q, s.threshold, err.Error(), s.now())
	} else {
		res = v.(domain.FeedResult)
	}
	if !s.apply(seq, key, res, err) {
		metrics.FeedFetchesTotal.WithLabelValues("stale").Inc()
		return
	}

	if err != nil {
		metrics.FeedFetchesTotal.WithLabelValues("degraded").Inc()
		metrics.FeedDegraded.Set(1)
	} else {
		metrics.FeedFetchesTotal.WithLabelValues("applied").Inc()
		metrics.FeedDegraded.Set(0)
		if s.store != nil {
			if err := s.store.SaveSnapshot(ctx, key, res, s.now()); err != nil {
				log.Printf("[feed] persist snapshot: %v", err)
			}
		}
	}
	s.publish(events.TypeFeedUpdated, map[string]any{
		"key":         key,
		"degraded":    res.Degraded,
		"total_count": res.Pagination.TotalCount,
	})
}

// apply installs res if key is still current and nothing newer was applied.
func (s *Session) apply(seq uint64, key string, res domain.FeedResult, fetchErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key != s.q.Key() || seq <= s.applied {
		return false
	}
	s.applied = seq
	s.result = &res
	s.updatedAt = s.now()
	s.stale = false
	if !res.Degraded {
		// the placeholder's single page says nothing about the real feed
		s.q.Observe(res.Pagination.TotalPages)
	}
	if fetchErr != nil {
		s.errMsg = fetchErr.Error()
	} else {
		s.errMsg = ""
	}
	return true
}

func (s *Session) publish(typ string, data any) {
	if s.notify == nil {
		return
	}
	s.notify.Publish(events.MakeEvent("", typ, 1, data))
}
