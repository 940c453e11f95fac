package api

import (
	"net/http"
	"strconv"

	"github.com/querykit/ts3-console/internal/facade"
)

func (s *Server) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.deps.Ops.ServerInfo(sessionID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, info)
}

func (s *Server) handleServerEdit(w http.ResponseWriter, r *http.Request) {
	var props map[string]string
	if err := decode(r, &props); err != nil {
		s.respondBadRequest(w, "invalid properties payload")
		return
	}

	if err := s.deps.Ops.ServerEdit(sessionID(r), props); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	topo, err := s.deps.Ops.Topology(sessionID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, topo)
}

func (s *Server) handleServerLogs(w http.ResponseWriter, r *http.Request) {
	beginPos, _ := strconv.ParseInt(r.URL.Query().Get("beginPos"), 10, 64)

	page, err := s.deps.Ops.ServerLogs(sessionID(r), facade.ServerLogRequest{
		Lines:    intQuery(r, "lines", 100),
		Reverse:  boolQuery(r, "reverse"),
		Instance: boolQuery(r, "instance"),
		BeginPos: beginPos,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, page)
}

func (s *Server) handleClientInfo(w http.ResponseWriter, r *http.Request) {
	clid, ok := intParam(r, "clid")
	if !ok {
		s.respondBadRequest(w, "invalid client id")
		return
	}

	detail, err := s.deps.Ops.ClientInfo(sessionID(r), clid)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, detail)
}

func (s *Server) handleKick(w http.ResponseWriter, r *http.Request) {
	clid, ok := intParam(r, "clid")
	if !ok {
		s.respondBadRequest(w, "invalid client id")
		return
	}

	var body struct {
		Reason     string `json:"reason"`
		FromServer bool   `json:"fromServer"`
	}
	if err := decode(r, &body); err != nil {
		s.respondBadRequest(w, "invalid kick payload")
		return
	}

	reasonID := facade.KickFromChannel
	if body.FromServer {
		reasonID = facade.KickFromServer
	}

	if err := s.deps.Ops.Kick(sessionID(r), clid, reasonID, body.Reason); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleBanClient(w http.ResponseWriter, r *http.Request) {
	clid, ok := intParam(r, "clid")
	if !ok {
		s.respondBadRequest(w, "invalid client id")
		return
	}

	var body struct {
		Time   int    `json:"time"`
		Reason string `json:"reason"`
	}
	if err := decode(r, &body); err != nil {
		s.respondBadRequest(w, "invalid ban payload")
		return
	}

	if err := s.deps.Ops.Ban(sessionID(r), clid, body.Time, body.Reason); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handlePoke(w http.ResponseWriter, r *http.Request) {
	clid, ok := intParam(r, "clid")
	if !ok {
		s.respondBadRequest(w, "invalid client id")
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := decode(r, &body); err != nil {
		s.respondBadRequest(w, "invalid poke payload")
		return
	}

	if err := s.deps.Ops.Poke(sessionID(r), clid, body.Message); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	clid, ok := intParam(r, "clid")
	if !ok {
		s.respondBadRequest(w, "invalid client id")
		return
	}

	var body struct {
		ChannelID int `json:"cid"`
	}
	if err := decode(r, &body); err != nil {
		s.respondBadRequest(w, "invalid move payload")
		return
	}

	if err := s.deps.Ops.MoveClient(sessionID(r), clid, body.ChannelID); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TargetMode int    `json:"targetMode"`
		Target     int    `json:"target"`
		Message    string `json:"message"`
	}
	if err := decode(r, &body); err != nil {
		s.respondBadRequest(w, "invalid message payload")
		return
	}

	if body.TargetMode < facade.TargetPrivate || body.TargetMode > facade.TargetServer {
		s.respondBadRequest(w, "invalid target mode")
		return
	}

	if err := s.deps.Ops.SendMessage(sessionID(r), body.TargetMode, body.Target, body.Message); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleBanList(w http.ResponseWriter, r *http.Request) {
	bans, err := s.deps.Ops.BanList(sessionID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, bans)
}

func (s *Server) handleBanAdd(w http.ResponseWriter, r *http.Request) {
	var rule facade.BanRule
	if err := decode(r, &rule); err != nil {
		s.respondBadRequest(w, "invalid ban rule payload")
		return
	}

	if rule.IP == "" && rule.Name == "" && rule.UID == "" {
		s.respondBadRequest(w, "ban rule needs an ip, name or uid")
		return
	}

	if err := s.deps.Ops.BanAdd(sessionID(r), rule); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleBanDel(w http.ResponseWriter, r *http.Request) {
	banID, ok := intParam(r, "banid")
	if !ok {
		s.respondBadRequest(w, "invalid ban id")
		return
	}

	if err := s.deps.Ops.BanDel(sessionID(r), banID); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}
