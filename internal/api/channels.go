package api

import (
	"net/http"
)

func (s *Server) handleChannelInfo(w http.ResponseWriter, r *http.Request) {
	cid, ok := intParam(r, "cid")
	if !ok {
		s.respondBadRequest(w, "invalid channel id")
		return
	}

	detail, err := s.deps.Ops.ChannelInfo(sessionID(r), cid)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, detail)
}

func (s *Server) handleChannelCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string            `json:"name"`
		ParentID int               `json:"pid"`
		Props    map[string]string `json:"props"`
	}
	if err := decode(r, &body); err != nil || body.Name == "" {
		s.respondBadRequest(w, "channel name is required")
		return
	}

	cid, err := s.deps.Ops.ChannelCreate(sessionID(r), body.Name, body.ParentID, body.Props)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, map[string]int{"cid": cid})
}

func (s *Server) handleChannelEdit(w http.ResponseWriter, r *http.Request) {
	cid, ok := intParam(r, "cid")
	if !ok {
		s.respondBadRequest(w, "invalid channel id")
		return
	}

	var props map[string]string
	if err := decode(r, &props); err != nil || len(props) == 0 {
		s.respondBadRequest(w, "no channel properties given")
		return
	}

	if err := s.deps.Ops.ChannelEdit(sessionID(r), cid, props); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleChannelDelete(w http.ResponseWriter, r *http.Request) {
	cid, ok := intParam(r, "cid")
	if !ok {
		s.respondBadRequest(w, "invalid channel id")
		return
	}

	if err := s.deps.Ops.ChannelDelete(sessionID(r), cid, boolQuery(r, "force")); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}
