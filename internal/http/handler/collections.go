package handler

import (
	"net/http"

	"mindnest/internal/api"
	"mindnest/internal/journal"
)

type CollectionHandler struct {
	Svc *journal.Service
}

func collectionDTO(c journal.Collection, count int64) api.Collection {
	return api.Collection{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		EntryCount:  count,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCollectionInput(in api.CollectionInput) journal.CollectionInput {
	return journal.CollectionInput{
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
	}
}

func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r)

	rows, err := h.Svc.ListCollections(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	counts, err := h.Svc.EntryCounts(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]api.Collection, 0, len(rows))
	for _, c := range rows {
		out = append(out, collectionDTO(c, counts[c.ID]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK, id)
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CollectionInput
	if !decode(w, r, &req) {
		return
	}

	c, err := h.Svc.CreateCollection(r.Context(), currentUser(r), toCollectionInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, collectionDTO(c, 0))
}

func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req api.CollectionInput
	if !decode(w, r, &req) {
		return
	}

	if _, err := h.Svc.UpdateCollection(r.Context(), currentUser(r), id, toCollectionInput(req)); err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, id)
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.DeleteCollection(r.Context(), currentUser(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) respond(w http.ResponseWriter, r *http.Request, status int, id uint64) {
	uid := currentUser(r)

	c, err := h.Svc.GetCollection(r.Context(), uid, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	counts, err := h.Svc.EntryCounts(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, collectionDTO(c, counts[c.ID]))
}
