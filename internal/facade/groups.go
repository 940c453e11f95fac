package facade

import (
	"strconv"

	"github.com/querykit/ts3-console/internal/query"
)

// ServerGroup is one entry of the server group catalog.
type ServerGroup struct {
	ID       int    `json:"sgid"`
	Name     string `json:"name"`
	Type     int    `json:"type"`
	IconID   int64  `json:"iconid"`
	SaveDB   bool   `json:"savedb"`
	SortID   int    `json:"sortid"`
	NameMode int    `json:"namemode"`
}

// ServerGroups lists all server groups.
func (f *Facade) ServerGroups(sessionID string) ([]ServerGroup, error) {
	recs, err := f.list(sessionID, query.Cmd("servergrouplist"))
	if err != nil {
		return nil, err
	}

	groups := make([]ServerGroup, 0, len(recs))

	for _, r := range recs {
		groups = append(groups, ServerGroup{
			ID:       r.Int("sgid"),
			Name:     r.Str("name"),
			Type:     r.Int("type"),
			IconID:   r.Int64("iconid"),
			SaveDB:   r.Bool("savedb"),
			SortID:   r.Int("sortid"),
			NameMode: r.Int("namemode"),
		})
	}

	return groups, nil
}

// GroupMember is one client assigned to a server group.
type GroupMember struct {
	DatabaseID       int    `json:"cldbid"`
	Nickname         string `json:"client_nickname"`
	UniqueIdentifier string `json:"client_unique_identifier"`
}

// ServerGroupClients lists the members of a group. Groups with no members
// yield an empty list.
func (f *Facade) ServerGroupClients(sessionID string, sgid int) ([]GroupMember, error) {
	recs, err := f.list(sessionID,
		query.Cmd("servergroupclientlist", "sgid", strconv.Itoa(sgid)).WithOptions("-names"))
	if err != nil {
		return nil, err
	}

	members := make([]GroupMember, 0, len(recs))

	for _, r := range recs {
		members = append(members, GroupMember{
			DatabaseID:       r.Int("cldbid"),
			Nickname:         r.Str("client_nickname"),
			UniqueIdentifier: r.Str("client_unique_identifier"),
		})
	}

	return members, nil
}

// ServerGroupCopy duplicates a group into a new one and returns the new
// group id.
func (f *Facade) ServerGroupCopy(sessionID string, sourceSGID int, name string, groupType int) (int, error) {
	rec, err := f.first(sessionID, query.Cmd("servergroupcopy",
		"ssgid", strconv.Itoa(sourceSGID),
		"tsgid", "0",
		"name", name,
		"type", strconv.Itoa(groupType),
	))
	if err != nil {
		return 0, err
	}

	return rec.Int("sgid"), nil
}

// ServerGroupDel deletes a group; force also removes it while members
// remain assigned.
func (f *Facade) ServerGroupDel(sessionID string, sgid int, force bool) error {
	return f.run(sessionID, query.Cmd("servergroupdel",
		"sgid", strconv.Itoa(sgid),
		"force", flag(force),
	))
}

// ServerGroupRename renames a group.
func (f *Facade) ServerGroupRename(sessionID string, sgid int, name string) error {
	return f.run(sessionID, query.Cmd("servergrouprename",
		"sgid", strconv.Itoa(sgid),
		"name", name,
	))
}

// GroupPermission is one permission assigned to a server group.
type GroupPermission struct {
	Name    string `json:"permsid"`
	Value   int    `json:"permvalue"`
	Negated bool   `json:"permnegated"`
	Skip    bool   `json:"permskip"`
}

// ServerGroupPermList lists a group's assigned permissions by name. Groups
// with no assignments yield an empty list.
func (f *Facade) ServerGroupPermList(sessionID string, sgid int) ([]GroupPermission, error) {
	recs, err := f.list(sessionID,
		query.Cmd("servergrouppermlist", "sgid", strconv.Itoa(sgid)).WithOptions("-permsid"))
	if err != nil {
		return nil, err
	}

	perms := make([]GroupPermission, 0, len(recs))

	for _, r := range recs {
		perms = append(perms, GroupPermission{
			Name:    r.Str("permsid"),
			Value:   r.Int("permvalue"),
			Negated: r.Bool("permnegated"),
			Skip:    r.Bool("permskip"),
		})
	}

	return perms, nil
}

// PermissionInfo is one entry of the server's permission catalog.
type PermissionInfo struct {
	ID          int    `json:"permid"`
	Name        string `json:"permsid"`
	Description string `json:"permdesc"`
}

// PermissionList fetches the catalog of all permissions the server knows.
func (f *Facade) PermissionList(sessionID string) ([]PermissionInfo, error) {
	recs, err := f.list(sessionID, query.Cmd("permissionlist"))
	if err != nil {
		return nil, err
	}

	perms := make([]PermissionInfo, 0, len(recs))

	for _, r := range recs {
		perms = append(perms, PermissionInfo{
			ID:          r.Int("permid"),
			Name:        r.StrOr("permname", r.Str("permsid")),
			Description: r.Str("permdesc"),
		})
	}

	return perms, nil
}

// ServerGroupAddPerm assigns a permission to a group.
func (f *Facade) ServerGroupAddPerm(sessionID string, sgid int, perm GroupPermission) error {
	return f.run(sessionID, query.Cmd("servergroupaddperm",
		"sgid", strconv.Itoa(sgid),
		"permsid", perm.Name,
		"permvalue", strconv.Itoa(perm.Value),
		"permnegated", flag(perm.Negated),
		"permskip", flag(perm.Skip),
	))
}

// ServerGroupDelPerm removes a permission from a group.
func (f *Facade) ServerGroupDelPerm(sessionID string, sgid int, permName string) error {
	return f.run(sessionID, query.Cmd("servergroupdelperm",
		"sgid", strconv.Itoa(sgid),
		"permsid", permName,
	))
}

// ServerGroupAddClient assigns a database client to a group.
func (f *Facade) ServerGroupAddClient(sessionID string, sgid, cldbid int) error {
	return f.run(sessionID, query.Cmd("servergroupaddclient",
		"sgid", strconv.Itoa(sgid),
		"cldbid", strconv.Itoa(cldbid),
	))
}

// ServerGroupDelClient removes a database client from a group.
func (f *Facade) ServerGroupDelClient(sessionID string, sgid, cldbid int) error {
	return f.run(sessionID, query.Cmd("servergroupdelclient",
		"sgid", strconv.Itoa(sgid),
		"cldbid", strconv.Itoa(cldbid),
	))
}

// flag renders a bool the way the protocol expects it.
func flag(b bool) string {
	if b {
		return "1"
	}

	return "0"
}
