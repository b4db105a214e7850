package httpapi

import (
	"context"
	"sync/atomic"

	"jobfeed-engine/internal/config"
	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/feed"
	"jobfeed-engine/internal/poll"
)

// FeedSession is satisfied by *feed.Session.
type FeedSession interface {
	View() feed.View
	SetFilter(aboveOnly bool)
	SetSort(by domain.SortBy) error
	SetPage(p int) error
	Refresh()
}

// Source is the part of *source.Client the API forwards to.
type Source interface {
	GetProfile(ctx context.Context) (domain.ProfilePreferences, error)
	SaveProfile(ctx context.Context, p domain.ProfilePreferences) (domain.ProfilePreferences, error)
	Stats(ctx context.Context) (domain.SourceStats, error)
	ScrapeStatus(ctx context.Context) (domain.ScrapeStatus, error)
}

type PollStatuser interface {
	Status() poll.Status
}

// Store is satisfied by *store.DB.
type Store interface {
	Checkpoint(ctx context.Context) error
	CountSnapshots(ctx context.Context) (int, error)
}

// TokenStore is satisfied by *secrets.TokenCache.
type TokenStore interface {
	Set(token string) error
	Clear() error
}

type Deps struct {
	Session FeedSession
	Source  Source
	Poller  PollStatuser
	DB      Store
	Token   TokenStore

	Hub *events.Hub

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}

func (d Deps) config() config.Config {
	if d.CfgVal != nil {
		if c, ok := d.CfgVal.Load().(config.Config); ok {
			return c
		}
	}
	return config.Default()
}
