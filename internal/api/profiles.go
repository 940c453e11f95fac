package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/querykit/ts3-console/internal/store"
)

func (s *Server) handleProfileList(w http.ResponseWriter, _ *http.Request) {
	profiles, err := s.deps.Store.Profiles()
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, profiles)
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	profile, err := s.deps.Store.Profile(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, profile)
}

// handleProfileSave serves both create (POST, no id) and update (PUT with
// the id taken from the path).
func (s *Server) handleProfileSave(w http.ResponseWriter, r *http.Request) {
	var profile store.ConnectionProfile
	if err := decode(r, &profile); err != nil {
		s.respondBadRequest(w, "invalid profile payload")
		return
	}

	if id := chi.URLParam(r, "id"); id != "" {
		profile.ID = id
	}

	if profile.Host == "" {
		s.respondBadRequest(w, "host is required")
		return
	}

	saved, err := s.deps.Store.SaveProfile(profile)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, saved)
}

// handleProfileDelete removes the profile along with its persisted logs,
// disconnecting any live session first.
func (s *Server) handleProfileDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.deps.Sessions.Disconnect(id)

	if err := s.deps.Logs.Clear(id); err != nil {
		s.log.WithError(err).WithField("profile", id).Warn("Failed to clear logs for deleted profile")
	}

	if err := s.deps.Store.DeleteProfile(id); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}
