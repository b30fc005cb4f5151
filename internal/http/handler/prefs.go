package handler

import (
	"net/http"

	"mindnest/internal/api"
	"mindnest/internal/prefs"

	"github.com/go-chi/chi/v5"
)

type PrefsHandler struct {
	Store *prefs.Store
}

func prefDTO(p prefs.Preference) api.Preference {
	return api.Preference{Key: p.Name, Value: p.Value, UpdatedAt: p.UpdatedAt}
}

func (h *PrefsHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.List(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]api.Preference, 0, len(rows))
	for _, p := range rows {
		out = append(out, prefDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PrefsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.Get(r.Context(), currentUser(r), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefDTO(p))
}

func (h *PrefsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req api.PreferenceValue
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Store.Set(r.Context(), currentUser(r), chi.URLParam(r, "key"), req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefDTO(p))
}

func (h *PrefsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), currentUser(r), chi.URLParam(r, "key")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
