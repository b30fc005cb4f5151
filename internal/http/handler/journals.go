package handler

import (
	"net/http"
	"strconv"
	"strings"

	"mindnest/internal/api"
	"mindnest/internal/journal"
)

const maxListLimit = 500

type JournalHandler struct {
	Svc *journal.Service
}

func journalDTO(j journal.Journal) api.Journal {
	out := api.Journal{
		ID:           j.ID,
		CollectionID: j.CollectionID,
		Title:        j.Title,
		Content:      j.Content,
		PlainText:    j.PlainText,
		IsFavorite:   j.IsFavorite,
		Tags:         j.TagNames(),
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	if j.Mood != nil {
		out.Mood = &api.Mood{Emoji: j.Mood.Emoji, Label: j.Mood.Label, Intensity: j.Mood.Intensity}
	}
	if j.Collection != nil {
		out.Collection = &api.CollectionRef{
			ID:    j.Collection.ID,
			Title: j.Collection.Title,
			Color: j.Collection.Color,
			Icon:  j.Collection.Icon,
		}
	}
	return out
}

func toMoodInput(m *api.MoodInput) *journal.MoodInput {
	if m == nil {
		return nil
	}
	return &journal.MoodInput{
		Emoji:     m.Emoji,
		Label:     m.Label,
		Combined:  m.Mood,
		Intensity: m.Intensity,
	}
}

// List accepts ?collection_id=&favorite=&tag=&q=&limit=.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f := journal.Filter{
		Tag:   strings.TrimSpace(query.Get("tag")),
		Query: strings.TrimSpace(query.Get("q")),
	}

	if v := strings.TrimSpace(query.Get("collection_id")); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid collection_id", http.StatusBadRequest)
			return
		}
		f.CollectionID = &id
	}
	if v := strings.TrimSpace(strings.ToLower(query.Get("favorite"))); v != "" {
		fav, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "invalid favorite", http.StatusBadRequest)
			return
		}
		f.Favorite = &fav
	}
	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxListLimit {
			f.Limit = n
		}
	}

	rows, err := h.Svc.ListJournals(r.Context(), currentUser(r), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]api.Journal, 0, len(rows))
	for _, j := range rows {
		out = append(out, journalDTO(j))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	j, err := h.Svc.GetJournal(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, journalDTO(j))
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.JournalInput
	if !decode(w, r, &req) {
		return
	}

	j, err := h.Svc.CreateJournal(r.Context(), currentUser(r), journal.JournalInput{
		Title:        req.Title,
		Content:      req.Content,
		PlainText:    req.PlainText,
		CollectionID: req.CollectionID,
		Mood:         toMoodInput(req.Mood),
		Tags:         req.Tags,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, journalDTO(j))
}

func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req api.JournalUpdate
	if !decode(w, r, &req) {
		return
	}

	j, err := h.Svc.UpdateJournal(r.Context(), currentUser(r), id, journal.JournalUpdate{
		Title:        req.Title,
		Content:      req.Content,
		PlainText:    req.PlainText,
		CollectionID: req.CollectionID,
		Mood:         toMoodInput(req.Mood),
		ClearMood:    req.ClearMood,
		Tags:         req.Tags,
		IsFavorite:   req.IsFavorite,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, journalDTO(j))
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.DeleteJournal(r.Context(), currentUser(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JournalHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	j, err := h.Svc.ToggleFavorite(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, journalDTO(j))
}
