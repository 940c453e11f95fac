package facade

import (
	"strconv"

	"github.com/querykit/ts3-console/internal/query"
)

// File entry types on the wire.
const (
	FileTypeDirectory = 0
	FileTypeFile      = 1
)

// FileEntry is one file or directory in a channel's file repository.
type FileEntry struct {
	ChannelID int    `json:"cid"`
	Path      string `json:"path"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	DateTime  int64  `json:"datetime"`
	Type      int    `json:"type"`
}

// FileList lists a directory in a channel's file repository. An empty
// directory yields an empty list.
func (f *Facade) FileList(sessionID string, cid int, channelPW, path string) ([]FileEntry, error) {
	if path == "" {
		path = "/"
	}

	recs, err := f.list(sessionID, query.Cmd("ftgetfilelist",
		"cid", strconv.Itoa(cid),
		"cpw", channelPW,
		"path", path,
	))
	if err != nil {
		return nil, err
	}

	files := make([]FileEntry, 0, len(recs))

	for _, r := range recs {
		if r.Str("name") == "" {
			continue
		}

		files = append(files, FileEntry{
			ChannelID: r.IntOr("cid", cid),
			Path:      r.StrOr("path", path),
			Name:      r.Str("name"),
			Size:      r.Int64("size"),
			DateTime:  r.Int64("datetime"),
			Type:      r.Int("type"),
		})
	}

	return files, nil
}

// FileInfo fetches size and modification time for one file.
func (f *Facade) FileInfo(sessionID string, cid int, channelPW, name string) (*FileEntry, error) {
	rec, err := f.first(sessionID, query.Cmd("ftgetfileinfo",
		"cid", strconv.Itoa(cid),
		"cpw", channelPW,
		"name", name,
	))
	if err != nil {
		return nil, err
	}

	return &FileEntry{
		ChannelID: rec.IntOr("cid", cid),
		Name:      rec.StrOr("name", name),
		Size:      rec.Int64("size"),
		DateTime:  rec.Int64("datetime"),
		Type:      FileTypeFile,
	}, nil
}

// CreateDirectory creates a directory in a channel's file repository.
func (f *Facade) CreateDirectory(sessionID string, cid int, channelPW, dirname string) error {
	return f.run(sessionID, query.Cmd("ftcreatedir",
		"cid", strconv.Itoa(cid),
		"cpw", channelPW,
		"dirname", dirname,
	))
}

// DeleteFile removes a file or directory from a channel's repository.
func (f *Facade) DeleteFile(sessionID string, cid int, channelPW, name string) error {
	return f.run(sessionID, query.Cmd("ftdeletefile",
		"cid", strconv.Itoa(cid),
		"cpw", channelPW,
		"name", name,
	))
}

// RenameFile renames a file within the same channel repository.
func (f *Facade) RenameFile(sessionID string, cid int, channelPW, oldName, newName string) error {
	return f.run(sessionID, query.Cmd("ftrenamefile",
		"cid", strconv.Itoa(cid),
		"cpw", channelPW,
		"oldname", oldName,
		"newname", newName,
	))
}
