package api

import (
	"net/http"

	"github.com/wordflash/wordflash/internal/logger"
)

type registerRequest struct {
	Username string `json:"username"`
}

type telegramRequest struct {
	ChatID  *int64 `json:"chat_id"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.Register(r.Context(), req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("user registered: id=%s", user.ID)
	setUserCookie(w, user.ID)
	writeJSON(w, r, http.StatusCreated, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, userFromContext(r.Context()))
}

func (s *Server) handleLinkTelegram(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req telegramRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	updated, err := s.UserService.LinkTelegram(r.Context(), user.ID, req.ChatID, req.Enabled)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := s.UserService.Delete(r.Context(), user.ID); err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("user deleted")
	clearUserCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
