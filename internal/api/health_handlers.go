package api

import (
	"context"
	"net/http"
	"time"

	"github.com/wordflash/wordflash/internal/logger"
)

const readyTimeout = 2 * time.Second

// handleHealth reports liveness and always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady returns 200 when the database and cache answer, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	log := logger.FromContext(ctx)

	checks := map[string]string{"database": "ok", "cache": "ok"}
	status := http.StatusOK

	if err := ping(ctx, s.DB); err != nil {
		log.Warn("readiness check failed - database: %v", err)
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := ping(ctx, s.Cache); err != nil {
		log.Warn("readiness check failed - cache: %v", err)
		checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, r, status, checks)
}

func ping(ctx context.Context, p Pinger) error {
	if p == nil {
		return nil
	}
	return p.Ping(ctx)
}
