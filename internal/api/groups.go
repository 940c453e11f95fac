package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/querykit/ts3-console/internal/facade"
)

func (s *Server) handleGroupList(w http.ResponseWriter, r *http.Request) {
	groups, err := s.deps.Ops.ServerGroups(sessionID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, groups)
}

// handleGroupCopy creates a new group by duplicating an existing one, which
// is the only creation path the console offers.
func (s *Server) handleGroupCopy(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SourceGroupID int    `json:"sourceGroupId"`
		Name          string `json:"name"`
		Type          int    `json:"type"`
	}
	if err := decode(r, &body); err != nil {
		s.respondBadRequest(w, "invalid group payload")
		return
	}

	if body.Name == "" {
		s.respondBadRequest(w, "group name is required")
		return
	}

	sgid, err := s.deps.Ops.ServerGroupCopy(sessionID(r), body.SourceGroupID, body.Name, body.Type)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, map[string]int{"sgid": sgid})
}

func (s *Server) handleGroupDel(w http.ResponseWriter, r *http.Request) {
	sgid, ok := intParam(r, "sgid")
	if !ok {
		s.respondBadRequest(w, "invalid group id")
		return
	}

	if err := s.deps.Ops.ServerGroupDel(sessionID(r), sgid, boolQuery(r, "force")); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleGroupRename(w http.ResponseWriter, r *http.Request) {
	sgid, ok := intParam(r, "sgid")
	if !ok {
		s.respondBadRequest(w, "invalid group id")
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := decode(r, &body); err != nil || body.Name == "" {
		s.respondBadRequest(w, "group name is required")
		return
	}

	if err := s.deps.Ops.ServerGroupRename(sessionID(r), sgid, body.Name); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleGroupClients(w http.ResponseWriter, r *http.Request) {
	sgid, ok := intParam(r, "sgid")
	if !ok {
		s.respondBadRequest(w, "invalid group id")
		return
	}

	members, err := s.deps.Ops.ServerGroupClients(sessionID(r), sgid)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, members)
}

func (s *Server) handleGroupAddClient(w http.ResponseWriter, r *http.Request) {
	sgid, ok := intParam(r, "sgid")
	cldbid, ok2 := intParam(r, "cldbid")
	if !ok || !ok2 {
		s.respondBadRequest(w, "invalid group or client id")
		return
	}

	if err := s.deps.Ops.ServerGroupAddClient(sessionID(r), sgid, cldbid); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleGroupDelClient(w http.ResponseWriter, r *http.Request) {
	sgid, ok := intParam(r, "sgid")
	cldbid, ok2 := intParam(r, "cldbid")
	if !ok || !ok2 {
		s.respondBadRequest(w, "invalid group or client id")
		return
	}

	if err := s.deps.Ops.ServerGroupDelClient(sessionID(r), sgid, cldbid); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleGroupPermList(w http.ResponseWriter, r *http.Request) {
	sgid, ok := intParam(r, "sgid")
	if !ok {
		s.respondBadRequest(w, "invalid group id")
		return
	}

	perms, err := s.deps.Ops.ServerGroupPermList(sessionID(r), sgid)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, perms)
}

func (s *Server) handleGroupAddPerm(w http.ResponseWriter, r *http.Request) {
	sgid, ok := intParam(r, "sgid")
	if !ok {
		s.respondBadRequest(w, "invalid group id")
		return
	}

	var perm facade.GroupPermission
	if err := decode(r, &perm); err != nil || perm.Name == "" {
		s.respondBadRequest(w, "permission name is required")
		return
	}

	if err := s.deps.Ops.ServerGroupAddPerm(sessionID(r), sgid, perm); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleGroupDelPerm(w http.ResponseWriter, r *http.Request) {
	sgid, ok := intParam(r, "sgid")
	if !ok {
		s.respondBadRequest(w, "invalid group id")
		return
	}

	if err := s.deps.Ops.ServerGroupDelPerm(sessionID(r), sgid, chi.URLParam(r, "permsid")); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handlePermissionList(w http.ResponseWriter, r *http.Request) {
	perms, err := s.deps.Ops.PermissionList(sessionID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, perms)
}
