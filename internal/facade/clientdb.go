package facade

import (
	"strconv"

	"github.com/querykit/ts3-console/internal/query"
)

const (
	// dbListBatch is the page size used when walking the client database;
	// the server caps results per call.
	dbListBatch = 200

	// dbListCeiling is the hard safety limit on records fetched in one
	// listing, to bound runaway walks on huge databases.
	dbListCeiling = 50000
)

// DBClient is one client database record.
type DBClient struct {
	DatabaseID       int    `json:"cldbid"`
	UniqueIdentifier string `json:"client_unique_identifier"`
	Nickname         string `json:"client_nickname"`
	Created          int64  `json:"client_created"`
	LastConnected    int64  `json:"client_lastconnected"`
	TotalConnections int    `json:"client_totalconnections"`
	Description      string `json:"client_description"`
	LastIP           string `json:"client_lastip"`
}

// ClientDBList lists the client database. With a pattern it searches by
// nickname; without one it pages through the whole database in fixed-size
// batches until a short page or the safety ceiling, concatenating results
// so callers never see the per-call limit.
func (f *Facade) ClientDBList(sessionID, pattern string) ([]DBClient, error) {
	conn, err := f.conn(sessionID)
	if err != nil {
		return nil, err
	}

	if pattern != "" {
		recs, err := conn.Do(query.Cmd("clientdbfind", "pattern", pattern))
		if query.IsEmptyResult(err) {
			return []DBClient{}, nil
		}

		if err != nil {
			return nil, err
		}

		return mapDBClients(recs), nil
	}

	var all []query.Record

	offset := 0

	for {
		recs, err := conn.Do(query.Cmd("clientdblist",
			"start", strconv.Itoa(offset),
			"duration", strconv.Itoa(dbListBatch),
		).WithOptions("-count"))
		if query.IsEmptyResult(err) {
			break
		}

		if err != nil {
			return nil, err
		}

		if len(recs) == 0 {
			break
		}

		all = append(all, recs...)
		offset += len(recs)

		if len(recs) < dbListBatch || offset > dbListCeiling {
			break
		}
	}

	f.log.WithField("clients", len(all)).Debug("Fetched client database")

	return mapDBClients(all), nil
}

// ClientDBInfo fetches one database record in detail.
func (f *Facade) ClientDBInfo(sessionID string, cldbid int) (*DBClientDetail, error) {
	rec, err := f.first(sessionID, query.Cmd("clientdbinfo", "cldbid", strconv.Itoa(cldbid)))
	if err != nil {
		return nil, err
	}

	return &DBClientDetail{
		DatabaseID:           rec.IntOr("cldbid", cldbid),
		UniqueIdentifier:     rec.Str("client_unique_identifier"),
		Nickname:             rec.Str("client_nickname"),
		Created:              rec.Int64("client_created"),
		LastConnected:        rec.Int64("client_lastconnected"),
		TotalConnections:     rec.Int("client_totalconnections"),
		Description:          rec.Str("client_description"),
		LastIP:               rec.Str("client_lastip"),
		MonthBytesUploaded:   rec.Int64("client_month_bytes_uploaded"),
		MonthBytesDownloaded: rec.Int64("client_month_bytes_downloaded"),
		TotalBytesUploaded:   rec.Int64("client_total_bytes_uploaded"),
		TotalBytesDownloaded: rec.Int64("client_total_bytes_downloaded"),
		Base64Hash:           rec.Str("client_base64HashClientUID"),
	}, nil
}

// DBClientDetail extends DBClient with transfer statistics.
type DBClientDetail struct {
	DatabaseID           int    `json:"cldbid"`
	UniqueIdentifier     string `json:"client_unique_identifier"`
	Nickname             string `json:"client_nickname"`
	Created              int64  `json:"client_created"`
	LastConnected        int64  `json:"client_lastconnected"`
	TotalConnections     int    `json:"client_totalconnections"`
	Description          string `json:"client_description"`
	LastIP               string `json:"client_lastip"`
	MonthBytesUploaded   int64  `json:"client_month_bytes_uploaded"`
	MonthBytesDownloaded int64  `json:"client_month_bytes_downloaded"`
	TotalBytesUploaded   int64  `json:"client_total_bytes_uploaded"`
	TotalBytesDownloaded int64  `json:"client_total_bytes_downloaded"`
	Base64Hash           string `json:"client_base64HashClientUID"`
}

// ClientDBEdit updates properties of a database record.
func (f *Facade) ClientDBEdit(sessionID string, cldbid int, props map[string]string) error {
	cmd := query.Cmd("clientdbedit", "cldbid", strconv.Itoa(cldbid))

	for _, k := range sortedKeys(props) {
		cmd = cmd.WithArg(k, props[k])
	}

	return f.run(sessionID, cmd)
}

// ClientDBDelete removes a database record.
func (f *Facade) ClientDBDelete(sessionID string, cldbid int) error {
	return f.run(sessionID, query.Cmd("clientdbdelete", "cldbid", strconv.Itoa(cldbid)))
}

// mapDBClients drops records without a usable database id, which the
// server emits for aggregate rows.
func mapDBClients(recs []query.Record) []DBClient {
	clients := make([]DBClient, 0, len(recs))

	for _, r := range recs {
		if r.Int("cldbid") <= 0 {
			continue
		}

		clients = append(clients, DBClient{
			DatabaseID:       r.Int("cldbid"),
			UniqueIdentifier: r.Str("client_unique_identifier"),
			Nickname:         r.Str("client_nickname"),
			Created:          r.Int64("client_created"),
			LastConnected:    r.Int64("client_lastconnected"),
			TotalConnections: r.Int("client_totalconnections"),
			Description:      r.Str("client_description"),
			LastIP:           r.Str("client_lastip"),
		})
	}

	return clients
}
