package api

import (
	"net/http"
)

func (s *Server) handleFileList(w http.ResponseWriter, r *http.Request) {
	cid := intQuery(r, "cid", 0)
	if cid <= 0 {
		s.respondBadRequest(w, "invalid channel id")
		return
	}

	q := r.URL.Query()

	files, err := s.deps.Ops.FileList(sessionID(r), cid, q.Get("cpw"), q.Get("path"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, files)
}

func (s *Server) handleFileInfo(w http.ResponseWriter, r *http.Request) {
	cid := intQuery(r, "cid", 0)
	name := r.URL.Query().Get("name")

	if cid <= 0 || name == "" {
		s.respondBadRequest(w, "channel id and file name are required")
		return
	}

	info, err := s.deps.Ops.FileInfo(sessionID(r), cid, r.URL.Query().Get("cpw"), name)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondData(w, info)
}

func (s *Server) handleFileMkdir(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChannelID int    `json:"cid"`
		Password  string `json:"cpw"`
		Dirname   string `json:"dirname"`
	}
	if err := decode(r, &body); err != nil || body.ChannelID <= 0 || body.Dirname == "" {
		s.respondBadRequest(w, "channel id and directory name are required")
		return
	}

	if err := s.deps.Ops.CreateDirectory(sessionID(r), body.ChannelID, body.Password, body.Dirname); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleFileRename(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChannelID int    `json:"cid"`
		Password  string `json:"cpw"`
		OldName   string `json:"oldName"`
		NewName   string `json:"newName"`
	}
	if err := decode(r, &body); err != nil || body.ChannelID <= 0 || body.OldName == "" || body.NewName == "" {
		s.respondBadRequest(w, "channel id, old name and new name are required")
		return
	}

	if err := s.deps.Ops.RenameFile(sessionID(r), body.ChannelID, body.Password, body.OldName, body.NewName); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}

func (s *Server) handleFileDelete(w http.ResponseWriter, r *http.Request) {
	cid := intQuery(r, "cid", 0)
	name := r.URL.Query().Get("name")

	if cid <= 0 || name == "" {
		s.respondBadRequest(w, "channel id and file name are required")
		return
	}

	if err := s.deps.Ops.DeleteFile(sessionID(r), cid, r.URL.Query().Get("cpw"), name); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondOK(w)
}
