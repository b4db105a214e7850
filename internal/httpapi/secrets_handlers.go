package httpapi

import (
	"log"
	"net/http"
)

type SecretsHandler struct {
	Token TokenStore
}

func (h SecretsHandler) SetSourceToken(w http.ResponseWriter, r *http.Request) {
	var req tokenReq
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	if err := h.Token.Set(req.Token); err != nil {
		WriteError(w, r, http.StatusBadRequest, "token_store_failed", "failed to store token: "+err.Error())
		return
	}
	log.Printf("[secrets] source token updated")
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) ClearSourceToken(w http.ResponseWriter, r *http.Request) {
	if err := h.Token.Clear(); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "token_clear_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
