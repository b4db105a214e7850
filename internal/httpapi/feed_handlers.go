package httpapi

import (
	"errors"
	"net/http"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/query"
)

// FeedHandler exposes the session's view and query transitions. Transitions
// answer with the view right after the change, which is usually still
// loading; clients follow /events for the applied result.
type FeedHandler struct {
	Session FeedSession
}

func (h FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Session.View())
}

func (h FeedHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var req filterReq
	if err := decodeBody(r, &req); err != nil || req.AboveThresholdOnly == nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", `body must be {"above_threshold_only": bool}`)
		return
	}
	h.Session.SetFilter(*req.AboveThresholdOnly)
	writeJSON(w, h.Session.View())
}

func (h FeedHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var req sortReq
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}
	if err := h.Session.SetSort(domain.SortBy(req.SortBy)); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_sort", err.Error())
		return
	}
	writeJSON(w, h.Session.View())
}

func (h FeedHandler) Page(w http.ResponseWriter, r *http.Request) {
	var req pageReq
	if err := decodeBody(r, &req); err != nil || req.Page == nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", `body must be {"page": int}`)
		return
	}
	if err := h.Session.SetPage(*req.Page); err != nil {
		if errors.Is(err, query.ErrPageOutOfRange) {
			WriteError(w, r, http.StatusBadRequest, "page_out_of_range", err.Error())
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, h.Session.View())
}

func (h FeedHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.Session.Refresh()
	WriteJSON(w, http.StatusAccepted, h.Session.View())
}
