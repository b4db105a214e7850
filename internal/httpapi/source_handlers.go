package httpapi

import (
	"log"
	"net/http"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/fallback"
)

// SourceHandler forwards preference reads and writes unchanged and serves
// the source's read-only stats views.
type SourceHandler struct {
	Source    Source
	Threshold func() float64
}

func (h SourceHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Source.GetProfile(r.Context())
	if err != nil {
		log.Printf("[profile] load: %v", err)
		writeSourceError(w, r, "profile_load_failed", "Failed to load profile", err)
		return
	}
	writeJSON(w, p)
}

func (h SourceHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.ProfilePreferences
	if err := decodeBody(r, &p); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	saved, err := h.Source.SaveProfile(r.Context(), p)
	if err != nil {
		log.Printf("[profile] save: %v", err)
		writeSourceError(w, r, "profile_save_failed", "Failed to update profile", err)
		return
	}
	writeJSON(w, saved)
}

// Stats never fails; an unreachable source yields the zero-valued fallback.
func (h SourceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Source.Stats(r.Context())
	if err != nil {
		log.Printf("[source] stats: %v", err)
		st = fallback.SourceStats(h.Threshold())
	}
	writeJSON(w, st)
}

func (h SourceHandler) ScrapeStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Source.ScrapeStatus(r.Context())
	if err != nil {
		log.Printf("[source] scrape status: %v", err)
		st = fallback.ScrapeStatus()
	}
	writeJSON(w, st)
}
