package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"mindnest/internal/auth"
	"mindnest/internal/insight"
	"mindnest/internal/jobs"
	"mindnest/internal/journal"
	"mindnest/internal/prefs"
	"mindnest/internal/prompts"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// statusClientClosedRequest is logged for requests the client abandoned.
const statusClientClosedRequest = 499

// writeError maps domain errors to status codes. Anything unknown is
// logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, journal.ErrNotFound),
		errors.Is(err, prefs.ErrNotFound),
		errors.Is(err, prompts.ErrNoPrompts),
		errors.Is(err, jobs.ErrNoSnapshot),
		errors.Is(err, auth.ErrUserNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, journal.ErrTooManyTags):
		http.Error(w, "too many tags (max 5)", http.StatusBadRequest)
	case errors.Is(err, journal.ErrCollectionNotFound):
		http.Error(w, "collection not found", http.StatusBadRequest)
	case errors.Is(err, journal.ErrInvalidInput),
		errors.Is(err, prefs.ErrInvalidKey),
		errors.Is(err, auth.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, prefs.ErrValueTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, auth.ErrEmailTaken):
		http.Error(w, "email already used", http.StatusConflict)
	case errors.Is(err, auth.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, insight.ErrDisabled):
		http.Error(w, "reflection disabled", http.StatusServiceUnavailable)
	case errors.Is(err, context.Canceled):
		// client went away; the status only reaches the request log
		w.WriteHeader(statusClientClosedRequest)
	default:
		log.Printf("%s %s: %v\n", r.Method, r.URL.Path, err)
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func currentUser(r *http.Request) uint64 {
	uid, _ := auth.UserIDFromContext(r.Context())
	return uid
}
