package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"mindnest/internal/analytics"
	"mindnest/internal/api"
	"mindnest/internal/insight"
	"mindnest/internal/jobs"
	"mindnest/internal/journal"
)

type AnalyticsHandler struct {
	Journals  *journal.Service
	Jobs      *jobs.Repo
	Reflector insight.Reflector

	// Location is used when the request has no ?tz=.
	Location *time.Location
	Now      func() time.Time
}

// now returns the request's "today" in the caller's time zone.
func (h *AnalyticsHandler) now(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	loc := h.Location
	if loc == nil {
		loc = time.UTC
	}
	if tz := strings.TrimSpace(r.URL.Query().Get("tz")); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			http.Error(w, "invalid tz", http.StatusBadRequest)
			return time.Time{}, false
		}
		loc = l
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	return now.In(loc), true
}

func (h *AnalyticsHandler) snapshot(w http.ResponseWriter, r *http.Request) ([]analytics.Entry, []analytics.Collection, time.Time, bool) {
	now, ok := h.now(w, r)
	if !ok {
		return nil, nil, time.Time{}, false
	}
	entries, cols, err := h.Journals.Snapshot(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return nil, nil, time.Time{}, false
	}
	return entries, cols, now, true
}

// Summary is computed live from the current rows so a mutation is visible
// on the next request.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	entries, cols, now, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(entries, cols, now))
}

func (h *AnalyticsHandler) Moods(w http.ResponseWriter, r *http.Request) {
	entries, _, now, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.BuildMoodInsights(entries, now.Location()))
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	entries, cols, now, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.BuildDashboard(entries, cols, now))
}

// Snapshot returns the summary last stored by the worker. pending is true
// while a newer refresh is queued.
func (h *AnalyticsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r)

	snap, err := h.Jobs.LatestSnapshot(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pending, err := h.Jobs.Pending(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tags := []string(snap.TopTags)
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, api.Snapshot{
		ComputedAt:    snap.ComputedAt,
		Pending:       pending,
		Streak:        snap.Streak,
		LongestStreak: snap.LongestStreak,
		TotalJournals: snap.TotalJournals,
		TotalWords:    snap.TotalWords,
		TopTags:       tags,
		Summary:       []byte(snap.Payload),
	})
}

func (h *AnalyticsHandler) Reflection(w http.ResponseWriter, r *http.Request) {
	if _, off := h.Reflector.(insight.Disabled); off || h.Reflector == nil {
		writeError(w, r, insight.ErrDisabled)
		return
	}

	entries, cols, now, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	text, err := h.Reflector.Reflect(r.Context(), analytics.Summarize(entries, cols, now), entries)
	if err != nil {
		if errors.Is(err, insight.ErrDisabled) {
			writeError(w, r, err)
			return
		}
		log.Printf("reflection error: %v\n", err)
		http.Error(w, "reflection failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, api.Reflection{Text: text})
}
