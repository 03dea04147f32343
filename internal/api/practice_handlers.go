package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wordflash/wordflash/internal/services"
)

type startPracticeRequest struct {
	Mode services.PracticeMode `json:"mode"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) handleStartPractice(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req startPracticeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.PracticeService.Start(r.Context(), user.ID, req.Mode)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, state)
}

func (s *Server) handleGetPractice(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	state, err := s.PracticeService.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	s.writeState(w, r, state, err)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.PracticeService.Answer(r.Context(), user.ID, chi.URLParam(r, "id"), req.Answer)
	s.writeState(w, r, state, err)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	state, err := s.PracticeService.Reveal(r.Context(), user.ID, chi.URLParam(r, "id"))
	s.writeState(w, r, state, err)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	state, err := s.PracticeService.Next(r.Context(), user.ID, chi.URLParam(r, "id"))
	s.writeState(w, r, state, err)
}

func (s *Server) writeState(w http.ResponseWriter, r *http.Request, state *services.PracticeState, err error) {
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}
