package api

import "net/http"

// handleInfo handles GET /api/info.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: s.deps.Info(r.Context())})
	return nil
}

// handlePortfolio handles GET /api/portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: s.deps.Portfolio(r.Context())})
	return nil
}
