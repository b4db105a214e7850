package httpapi

import (
	"log"
	"net/http"
	"time"

	"jobfeed-engine/internal/events"
)

type HealthHandler struct {
	Poller PollStatuser
	Hub    *events.Hub
	DB     Store
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"ok":   true,
		"time": time.Now().Format(time.RFC3339),
	}
	if h.Poller != nil {
		out["poll"] = h.Poller.Status()
	}
	if h.Hub != nil {
		out["events"] = map[string]int{
			"subscribers": h.Hub.Len(),
			"dropped":     h.Hub.Dropped(),
		}
	}
	if h.DB != nil {
		// A failing count does not make the engine unhealthy.
		if n, err := h.DB.CountSnapshots(r.Context()); err != nil {
			log.Printf("[health] count snapshots: %v", err)
		} else {
			out["snapshots"] = n
		}
	}
	writeJSON(w, out)
}

type PollHandler struct {
	Poller PollStatuser
}

func (h PollHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h.Poller == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "poll_disabled", "poller not running")
		return
	}
	writeJSON(w, h.Poller.Status())
}
