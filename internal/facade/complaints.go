package facade

import (
	"strconv"

	"github.com/querykit/ts3-console/internal/query"
)

// Complaint is one complaint filed against a database client.
type Complaint struct {
	TargetDBID int    `json:"tcldbid"`
	TargetName string `json:"tname"`
	SourceDBID int    `json:"fcldbid"`
	SourceName string `json:"fname"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

// Complaints lists complaints, optionally filtered to one target client
// (targetDBID > 0). No complaints yields an empty list.
func (f *Facade) Complaints(sessionID string, targetDBID int) ([]Complaint, error) {
	cmd := query.Cmd("complainlist")
	if targetDBID > 0 {
		cmd = cmd.WithArg("tcldbid", strconv.Itoa(targetDBID))
	}

	recs, err := f.list(sessionID, cmd)
	if err != nil {
		return nil, err
	}

	complaints := make([]Complaint, 0, len(recs))

	for _, r := range recs {
		complaints = append(complaints, Complaint{
			TargetDBID: r.Int("tcldbid"),
			TargetName: r.Str("tname"),
			SourceDBID: r.Int("fcldbid"),
			SourceName: r.Str("fname"),
			Message:    r.Str("message"),
			Timestamp:  r.Int64("timestamp"),
		})
	}

	return complaints, nil
}

// ComplaintAdd files a complaint against a database client.
func (f *Facade) ComplaintAdd(sessionID string, targetDBID int, message string) error {
	return f.run(sessionID, query.Cmd("complainadd",
		"tcldbid", strconv.Itoa(targetDBID),
		"message", message,
	))
}

// ComplaintDel removes one complaint, identified by target and source.
func (f *Facade) ComplaintDel(sessionID string, targetDBID, sourceDBID int) error {
	return f.run(sessionID, query.Cmd("complaindel",
		"tcldbid", strconv.Itoa(targetDBID),
		"fcldbid", strconv.Itoa(sourceDBID),
	))
}

// ComplaintDelAll removes every complaint against one client.
func (f *Facade) ComplaintDelAll(sessionID string, targetDBID int) error {
	return f.run(sessionID, query.Cmd("complaindelall",
		"tcldbid", strconv.Itoa(targetDBID),
	))
}
