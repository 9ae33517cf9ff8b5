package api

import (
	"net/http"

	"github.com/okian/portfolio/internal/adapters/http/site"
)

// handleIndex handles GET / with the site's index.html.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) error {
	return site.ServeFile(w, r, s.site, site.IndexFile)
}

// handleNotFound answers every unmatched method and path.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	requested := r.RequestURI
	if requested == "" {
		requested = r.URL.RequestURI()
	}
	writeJSON(w, http.StatusNotFound, envelope{
		Success:      false,
		Message:      MsgNotFound,
		RequestedURL: requested,
	})
}
