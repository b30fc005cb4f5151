package handler

import (
	"net/http"

	"mindnest/internal/quotes"
)

type QuoteHandler struct {
	Client *quotes.Client
}

// Random always answers 200; upstream failures fall back to a local thought.
func (h *QuoteHandler) Random(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Client.Random(r.Context()))
}
