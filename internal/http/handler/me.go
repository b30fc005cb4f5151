package handler

import (
	"net/http"

	"mindnest/internal/api"
	"mindnest/internal/auth"
	"mindnest/internal/journal"
)

type MeHandler struct {
	Auth     *auth.Service
	Journals *journal.Service
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, currentUser(r))
}

func (h *MeHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r)

	var req api.ProfileUpdate
	if !decode(w, r, &req) {
		return
	}
	if _, err := h.Auth.UpdateProfile(r.Context(), uid, auth.ProfileUpdate{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	}); err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, uid)
}

func (h *MeHandler) respond(w http.ResponseWriter, r *http.Request, uid uint64) {
	u, err := h.Auth.GetUser(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	journals, collections, err := h.Journals.Counts(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.Profile{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		AvatarURL:    u.AvatarURL,
		LastSignInAt: u.LastSignInAt,
		CreatedAt:    u.CreatedAt,
		Journals:     journals,
		Collections:  collections,
	})
}
