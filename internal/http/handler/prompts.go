package handler

import (
	"net/http"
	"time"

	"mindnest/internal/prompts"
)

type PromptHandler struct {
	Svc *prompts.Service

	Location *time.Location
	Now      func() time.Time
}

// List accepts ?q= and ?mood= ("All" for any).
func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.Svc.List(r.Context(), q.Get("q"), q.Get("mood"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PromptHandler) Daily(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if h.Location != nil {
		now = now.In(h.Location)
	}

	p, err := h.Svc.Daily(r.Context(), now)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
