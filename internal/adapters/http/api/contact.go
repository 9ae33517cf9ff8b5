package api

import (
	"errors"
	"net"
	"net/http"

	"github.com/okian/portfolio/internal/domain/model"
	"github.com/okian/portfolio/pkg/logger"
)

// handleContact handles POST /api/contact.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) error {
	c := model.ContactFromFields(BodyFields(r.Context()))

	_, err := s.deps.SubmitContact(r.Context(), clientKey(r), c)
	switch {
	case err == nil:
		writeMessage(w, http.StatusOK, true, MsgContactThanks)
	case errors.Is(err, model.ErrMissingFields):
		writeMessage(w, http.StatusBadRequest, false, MsgMissingFields)
	case errors.Is(err, model.ErrInvalidEmail):
		writeMessage(w, http.StatusBadRequest, false, MsgInvalidEmail)
	case errors.Is(err, model.ErrRateLimited):
		writeMessage(w, http.StatusTooManyRequests, false, MsgRateLimited)
	case errors.Is(err, model.ErrAbandoned):
		// The client is gone; nobody is left to read a response.
		s.log.Debug(r.Context(), "contact submission abandoned", logger.Error(err))
	default:
		return err
	}
	return nil
}

// clientKey identifies the sender by remote IP.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
