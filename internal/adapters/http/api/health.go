package api

import "net/http"

// handleHealth handles GET /health. It is a liveness probe and always
// answers OK while the process serves requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, s.deps.Health(r.Context()))
	return nil
}
