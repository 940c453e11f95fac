package facade

import (
	"strconv"
	"strings"

	"github.com/querykit/ts3-console/internal/query"
)

// ServerLogEntry is one parsed line of the server instance log.
type ServerLogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Channel   string `json:"channel"`
	ServerID  string `json:"serverId"`
	Message   string `json:"message"`
	Raw       string `json:"raw"`
}

// ServerLogPage is one page of the server instance log with the cursor
// fields needed to fetch the next one.
type ServerLogPage struct {
	Entries  []ServerLogEntry `json:"logs"`
	LastPos  int64            `json:"lastPos"`
	FileSize int64            `json:"fileSize"`
}

// ServerLogRequest selects which part of the server log to fetch.
type ServerLogRequest struct {
	Lines    int   `json:"lines"`
	Reverse  bool  `json:"reverse"`
	Instance bool  `json:"instance"`
	BeginPos int64 `json:"beginPos"`
}

// ServerLogs fetches lines from the server's own log file via logview.
func (f *Facade) ServerLogs(sessionID string, req ServerLogRequest) (*ServerLogPage, error) {
	if req.Lines <= 0 {
		req.Lines = 100
	}

	recs, err := f.list(sessionID, query.Cmd("logview",
		"lines", strconv.Itoa(req.Lines),
		"reverse", flag(req.Reverse),
		"instance", flag(req.Instance),
		"begin_pos", strconv.FormatInt(req.BeginPos, 10),
	))
	if err != nil {
		return nil, err
	}

	page := &ServerLogPage{
		Entries: make([]ServerLogEntry, 0, len(recs)),
	}

	for _, r := range recs {
		if pos := r.Int64("last_pos"); pos > 0 {
			page.LastPos = pos
		}

		if size := r.Int64("file_size"); size > 0 {
			page.FileSize = size
		}

		raw := r.Str("l")
		if raw == "" {
			continue
		}

		page.Entries = append(page.Entries, parseServerLogLine(raw))
	}

	return page, nil
}

// parseServerLogLine splits the server's pipe-delimited log format
// ("timestamp|LEVEL|channel|serverid|message"). Lines that do not match
// degrade to a best-effort timestamp/message split.
func parseServerLogLine(raw string) ServerLogEntry {
	parts := strings.SplitN(raw, "|", 5)
	if len(parts) == 5 {
		return ServerLogEntry{
			Timestamp: strings.TrimSpace(parts[0]),
			Level:     strings.TrimSpace(parts[1]),
			Channel:   strings.TrimSpace(parts[2]),
			ServerID:  strings.TrimSpace(parts[3]),
			Message:   strings.TrimSpace(parts[4]),
			Raw:       raw,
		}
	}

	entry := ServerLogEntry{Level: "INFO", Raw: raw}

	if len(raw) > 19 {
		entry.Timestamp = raw[:19]
		entry.Message = strings.TrimSpace(raw[19:])
	} else {
		entry.Message = raw
	}

	return entry
}
