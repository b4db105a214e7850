package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{Poller: d.Poller, Hub: d.Hub, DB: d.DB}.Health,
	}))

	// Feed
	fh := FeedHandler{Session: d.Session}
	mux.HandleFunc("/feed", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.Get,
	}))
	mux.HandleFunc("/feed/filter", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: fh.Filter,
	}))
	mux.HandleFunc("/feed/sort", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: fh.Sort,
	}))
	mux.HandleFunc("/feed/page", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: fh.Page,
	}))
	mux.HandleFunc("/feed/refresh", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: fh.Refresh,
	}))

	// Profile and read-only source views
	sh := SourceHandler{Source: d.Source, Threshold: func() float64 { return d.config().Feed.ScoreThreshold }}
	mux.HandleFunc("/profile", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  sh.GetProfile,
		http.MethodPost: sh.SaveProfile,
	}))
	mux.HandleFunc("/source/stats", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Stats,
	}))
	mux.HandleFunc("/source/scrape-status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.ScrapeStatus,
	}))

	mux.HandleFunc("/poll/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: PollHandler{Poller: d.Poller}.Status,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets
	sec := SecretsHandler{Token: d.Token}
	mux.HandleFunc("/api/secrets/source-token", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   sec.SetSourceToken,
		http.MethodDelete: sec.ClearSourceToken,
	}))

	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: DBHandler{DB: d.DB}.Checkpoint,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// Handler wraps mux in the standard middleware chain.
func Handler(mux *http.ServeMux) http.Handler {
	return Chain(mux, RequestID, Recover, AccessLog(mux), Cors)
}
