package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleDBClientList(w http.ResponseWriter, r *http.Request) {
	clients, err := s.deps.Ops.ClientDBList(sessionID(r), r.URL.Query().Get("pattern"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, clients)
}

func (s *Server) handleDBClientInfo(w http.ResponseWriter, r *http.Request) {
	cldbid, ok := intParam(r, "cldbid")
	if !ok {
		s.respondBadRequest(w, "invalid database client id")
		return
	}

	detail, err := s.deps.Ops.ClientDBInfo(sessionID(r), cldbid)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, detail)
}

func (s *Server) handleDBClientEdit(w http.ResponseWriter, r *http.Request) {
	cldbid, ok := intParam(r, "cldbid")
	if !ok {
		s.respondBadRequest(w, "invalid database client id")
		return
	}

	var props map[string]string
	if err := decode(r, &props); err != nil || len(props) == 0 {
		s.respondBadRequest(w, "no client properties given")
		return
	}

	if err := s.deps.Ops.ClientDBEdit(sessionID(r), cldbid, props); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleDBClientDelete(w http.ResponseWriter, r *http.Request) {
	cldbid, ok := intParam(r, "cldbid")
	if !ok {
		s.respondBadRequest(w, "invalid database client id")
		return
	}

	if err := s.deps.Ops.ClientDBDelete(sessionID(r), cldbid); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleTokenList(w http.ResponseWriter, r *http.Request) {
	keys, err := s.deps.Ops.PrivilegeKeys(sessionID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, keys)
}

func (s *Server) handleTokenAdd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type        int    `json:"type"`
		GroupID     int    `json:"groupId"`
		ChannelID   int    `json:"channelId"`
		Description string `json:"description"`
	}
	if err := decode(r, &body); err != nil {
		s.respondBadRequest(w, "invalid token payload")
		return
	}

	token, err := s.deps.Ops.PrivilegeKeyAdd(sessionID(r), body.Type, body.GroupID, body.ChannelID, body.Description)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, map[string]string{"token": token})
}

func (s *Server) handleTokenDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Ops.PrivilegeKeyDelete(sessionID(r), chi.URLParam(r, "token")); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleComplaintList(w http.ResponseWriter, r *http.Request) {
	complaints, err := s.deps.Ops.Complaints(sessionID(r), intQuery(r, "tcldbid", 0))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, complaints)
}

func (s *Server) handleComplaintAdd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TargetDBID int    `json:"tcldbid"`
		Message    string `json:"message"`
	}
	if err := decode(r, &body); err != nil || body.TargetDBID <= 0 {
		s.respondBadRequest(w, "invalid complaint payload")
		return
	}

	if err := s.deps.Ops.ComplaintAdd(sessionID(r), body.TargetDBID, body.Message); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

// handleComplaintDel removes one complaint when a source client is given,
// or every complaint against the target when it is not.
func (s *Server) handleComplaintDel(w http.ResponseWriter, r *http.Request) {
	tcldbid, ok := intParam(r, "tcldbid")
	if !ok {
		s.respondBadRequest(w, "invalid target client id")
		return
	}

	var err error
	if fcldbid := intQuery(r, "fcldbid", 0); fcldbid > 0 {
		err = s.deps.Ops.ComplaintDel(sessionID(r), tcldbid, fcldbid)
	} else {
		err = s.deps.Ops.ComplaintDelAll(sessionID(r), tcldbid)
	}

	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}
