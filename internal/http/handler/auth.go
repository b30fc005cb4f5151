package handler

import (
	"net/http"

	"mindnest/internal/api"
	"mindnest/internal/auth"
)

type AuthHandler struct {
	Svc *auth.Service
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.Credentials
	if !decode(w, r, &req) {
		return
	}

	token, err := h.Svc.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.TokenResponse{Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.Credentials
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	token, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.TokenResponse{Token: token})
}

// Logout revokes the session behind the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sid, _ := auth.SessionIDFromContext(r.Context())
	if err := h.Svc.Logout(r.Context(), sid); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
