package facade

import (
	"strconv"

	"github.com/querykit/ts3-console/internal/query"
)

// PrivilegeKey is one unused token granting a group membership.
type PrivilegeKey struct {
	Token       string `json:"token"`
	Type        int    `json:"token_type"`
	ID1         int    `json:"token_id1"`
	ID2         int    `json:"token_id2"`
	Created     int64  `json:"token_created"`
	Description string `json:"token_description"`
	CustomSet   string `json:"token_customset"`
}

// PrivilegeKeys lists outstanding tokens. A server with none yields an
// empty list.
func (f *Facade) PrivilegeKeys(sessionID string) ([]PrivilegeKey, error) {
	recs, err := f.list(sessionID, query.Cmd("privilegekeylist"))
	if err != nil {
		return nil, err
	}

	keys := make([]PrivilegeKey, 0, len(recs))

	for _, r := range recs {
		keys = append(keys, PrivilegeKey{
			Token:       r.Str("token"),
			Type:        r.Int("token_type"),
			ID1:         r.Int("token_id1"),
			ID2:         r.Int("token_id2"),
			Created:     r.Int64("token_created"),
			Description: r.Str("token_description"),
			CustomSet:   r.Str("token_customset"),
		})
	}

	return keys, nil
}

// PrivilegeKeyAdd creates a token. tokenType 0 grants a server group
// (groupID), 1 a channel group (groupID within channelID). Returns the
// token string.
func (f *Facade) PrivilegeKeyAdd(sessionID string, tokenType, groupID, channelID int, description string) (string, error) {
	rec, err := f.first(sessionID, query.Cmd("privilegekeyadd",
		"tokentype", strconv.Itoa(tokenType),
		"tokenid1", strconv.Itoa(groupID),
		"tokenid2", strconv.Itoa(channelID),
		"tokendescription", description,
	))
	if err != nil {
		return "", err
	}

	return rec.Str("token"), nil
}

// PrivilegeKeyDelete removes a token.
func (f *Facade) PrivilegeKeyDelete(sessionID, token string) error {
	return f.run(sessionID, query.Cmd("privilegekeydelete", "token", token))
}
