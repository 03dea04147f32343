package api

import "net/http"

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	dashboard, err := s.StatsService.Dashboard(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dashboard)
}
