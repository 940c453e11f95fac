package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/querykit/ts3-console/internal/facade"
	"github.com/querykit/ts3-console/internal/session"
)

func (s *Server) handleSessionList(w http.ResponseWriter, _ *http.Request) {
	s.respondData(w, s.deps.Sessions.Active())
}

// connectResponse is the payload of a successful connect: the session
// summary plus the first full server snapshot when it could be fetched.
type connectResponse struct {
	Session  session.Summary  `json:"session"`
	Snapshot *facade.Snapshot `json:"snapshot,omitempty"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := s.deps.Store.Profile(id)
	if err != nil {
		s.respondError(w, err)
		return
	}

	summary, err := s.deps.Sessions.Connect(r.Context(), profile)
	if err != nil {
		s.respondError(w, err)
		return
	}

	// The session stands on its own; a failed first snapshot is not a
	// failed connect.
	snapshot, err := s.deps.Ops.Snapshot(id)
	if err != nil {
		s.log.WithError(err).WithField("session", id).Warn("Initial snapshot failed")
	}

	s.respondData(w, connectResponse{Session: summary, Snapshot: snapshot})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	s.deps.Sessions.Disconnect(chi.URLParam(r, "id"))
	s.respondOK(w)
}

func (s *Server) handleLogList(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, s.deps.Logs.List(chi.URLParam(r, "id")))
}

func (s *Server) handleLogClear(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Logs.Clear(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}
