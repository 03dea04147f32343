package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", userHeaderName, "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	if s.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{}))
	}

	r.Post("/users", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.userMiddleware)

		r.Get("/users/me", s.handleMe)
		r.Post("/users/me/telegram", s.handleLinkTelegram)
		r.Delete("/users/me", s.handleDeleteMe)

		r.Get("/flashcards", s.handleListFlashcards)
		r.Post("/flashcards", s.handleCreateFlashcard)
		r.Post("/flashcards/import", s.handleImportFlashcards)
		r.Delete("/flashcards/{id}", s.handleDeleteFlashcard)
		r.Post("/flashcards/{id}/result", s.handleSaveResult)

		r.Post("/practice", s.handleStartPractice)
		r.Get("/practice/{id}", s.handleGetPractice)
		r.Post("/practice/{id}/answer", s.handleAnswer)
		r.Post("/practice/{id}/reveal", s.handleReveal)
		r.Post("/practice/{id}/next", s.handleNext)

		r.Get("/stats", s.handleStats)
	})

	return r
}

func (s *Server) corsOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.CORSOrigins
}
