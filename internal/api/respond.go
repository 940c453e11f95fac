package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/querykit/ts3-console/internal/facade"
	"github.com/querykit/ts3-console/internal/session"
	"github.com/querykit/ts3-console/internal/store"
)

// envelope is the uniform response shape: success plus either a payload or
// a short error message the UI shows verbatim.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) respondData(w http.ResponseWriter, data any) {
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func (s *Server) respondOK(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFor(err), envelope{Success: false, Error: err.Error()})
}

func (s *Server) respondBadRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("Failed to write response")
	}
}

// statusFor maps the known error conditions onto HTTP status codes. Local
// persistence failures are internal errors; anything left came back from a
// remote command, so it surfaces as a bad gateway.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, facade.ErrNotConnected):
		return http.StatusConflict
	case errors.Is(err, session.ErrAlreadyConnected):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidProfile):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrStorage):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(v)
}
