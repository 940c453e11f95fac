package facade

import (
	"strconv"

	"github.com/querykit/ts3-console/internal/query"
)

// ServerInfo is the normalized identity of a virtual server.
type ServerInfo struct {
	Name           string `json:"virtualserver_name"`
	WelcomeMessage string `json:"virtualserver_welcomemessage"`
	MaxClients     int    `json:"virtualserver_maxclients"`
	ClientsOnline  int    `json:"virtualserver_clientsonline"`
	Uptime         int64  `json:"virtualserver_uptime"`
	Version        string `json:"virtualserver_version"`
	Platform       string `json:"virtualserver_platform"`
}

// Channel is one entry of the channel tree.
type Channel struct {
	ID                   int    `json:"cid"`
	ParentID             int    `json:"pid"`
	Name                 string `json:"channel_name"`
	Order                int    `json:"channel_order"`
	TotalClients         int    `json:"total_clients"`
	NeededSubscribePower int    `json:"channel_needed_subscribe_power"`
}

// Client is one online client as shown in the tree.
type Client struct {
	ID                 int    `json:"clid"`
	ChannelID          int    `json:"cid"`
	Nickname           string `json:"client_nickname"`
	Type               int    `json:"client_type"`
	Away               bool   `json:"client_away"`
	AwayMessage        string `json:"client_away_message"`
	InputMuted         bool   `json:"client_input_muted"`
	OutputMuted        bool   `json:"client_output_muted"`
	IsChannelCommander bool   `json:"client_is_channel_commander"`
	IsTalker           bool   `json:"client_is_talker"`
}

// Topology is the channel/client listing refreshed by the UI.
type Topology struct {
	Channels []Channel `json:"channels"`
	Clients  []Client  `json:"clients"`
}

// Snapshot is the full state returned right after connecting.
type Snapshot struct {
	ServerInfo ServerInfo `json:"serverInfo"`
	Channels   []Channel  `json:"channels"`
	Clients    []Client   `json:"clients"`
}

// ServerInfo fetches the virtual server identity.
func (f *Facade) ServerInfo(sessionID string) (*ServerInfo, error) {
	rec, err := f.first(sessionID, query.Cmd("serverinfo"))
	if err != nil {
		return nil, err
	}

	info := mapServerInfo(rec)

	return &info, nil
}

// Topology fetches the channel and client lists.
func (f *Facade) Topology(sessionID string) (*Topology, error) {
	channels, err := f.list(sessionID, query.Cmd("channellist"))
	if err != nil {
		return nil, err
	}

	clients, err := f.list(sessionID, query.Cmd("clientlist").WithOptions("-away", "-voice"))
	if err != nil {
		return nil, err
	}

	topo := &Topology{
		Channels: make([]Channel, 0, len(channels)),
		Clients:  make([]Client, 0, len(clients)),
	}

	for _, r := range channels {
		topo.Channels = append(topo.Channels, mapChannel(r))
	}

	for _, r := range clients {
		topo.Clients = append(topo.Clients, mapClient(r))
	}

	return topo, nil
}

// Snapshot fetches server identity plus topology, the payload of a
// successful connect.
func (f *Facade) Snapshot(sessionID string) (*Snapshot, error) {
	info, err := f.ServerInfo(sessionID)
	if err != nil {
		return nil, err
	}

	topo, err := f.Topology(sessionID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		ServerInfo: *info,
		Channels:   topo.Channels,
		Clients:    topo.Clients,
	}, nil
}

// ClientDetail is the full view of one online client.
type ClientDetail struct {
	ID                 int    `json:"clid"`
	ChannelID          int    `json:"cid"`
	Nickname           string `json:"client_nickname"`
	UniqueIdentifier   string `json:"client_unique_identifier"`
	DatabaseID         int    `json:"client_database_id"`
	Type               int    `json:"client_type"`
	Away               bool   `json:"client_away"`
	AwayMessage        string `json:"client_away_message"`
	InputMuted         bool   `json:"client_input_muted"`
	OutputMuted        bool   `json:"client_output_muted"`
	IsChannelCommander bool   `json:"client_is_channel_commander"`
	IsTalker           bool   `json:"client_is_talker"`
	IsRecording        bool   `json:"client_is_recording"`
	Version            string `json:"client_version"`
	Platform           string `json:"client_platform"`
	Country            string `json:"client_country"`
	IdleTime           int64  `json:"client_idle_time"`
	Created            int64  `json:"client_created"`
	LastConnected      int64  `json:"client_lastconnected"`
	TotalConnections   int    `json:"client_totalconnections"`
	Description        string `json:"client_description"`
	ServerGroups       []int  `json:"client_servergroups"`
	ChannelGroupID     int    `json:"client_channel_group_id"`
	ConnectionIP       string `json:"connection_client_ip"`
	ConnectedTime      int64  `json:"connection_connected_time"`
	BytesSentTotal     int64  `json:"connection_bytes_sent_total"`
	BytesReceivedTotal int64  `json:"connection_bytes_received_total"`
}

// ClientInfo fetches the full view of one online client.
func (f *Facade) ClientInfo(sessionID string, clid int) (*ClientDetail, error) {
	rec, err := f.first(sessionID, query.Cmd("clientinfo", "clid", strconv.Itoa(clid)))
	if err != nil {
		return nil, err
	}

	detail := &ClientDetail{
		ID:                 rec.IntOr("clid", clid),
		ChannelID:          rec.Int("cid"),
		Nickname:           rec.Str("client_nickname"),
		UniqueIdentifier:   rec.Str("client_unique_identifier"),
		DatabaseID:         rec.Int("client_database_id"),
		Type:               rec.Int("client_type"),
		Away:               rec.Bool("client_away"),
		AwayMessage:        rec.Str("client_away_message"),
		InputMuted:         rec.Bool("client_input_muted"),
		OutputMuted:        rec.Bool("client_output_muted"),
		IsChannelCommander: rec.Bool("client_is_channel_commander"),
		IsTalker:           rec.Bool("client_is_talker"),
		IsRecording:        rec.Bool("client_is_recording"),
		Version:            rec.Str("client_version"),
		Platform:           rec.Str("client_platform"),
		Country:            rec.Str("client_country"),
		IdleTime:           rec.Int64("client_idle_time"),
		Created:            rec.Int64("client_created"),
		LastConnected:      rec.Int64("client_lastconnected"),
		TotalConnections:   rec.Int("client_totalconnections"),
		Description:        rec.Str("client_description"),
		ServerGroups:       parseIDList(rec.Str("client_servergroups")),
		ChannelGroupID:     rec.Int("client_channel_group_id"),
		ConnectionIP:       rec.Str("connection_client_ip"),
		ConnectedTime:      rec.Int64("connection_connected_time"),
		BytesSentTotal:     rec.Int64("connection_bytes_sent_total"),
		BytesReceivedTotal: rec.Int64("connection_bytes_received_total"),
	}

	return detail, nil
}

// ChannelDetail is the full view of one channel.
type ChannelDetail struct {
	ID                 int    `json:"cid"`
	ParentID           int    `json:"pid"`
	Name               string `json:"channel_name"`
	Topic              string `json:"channel_topic"`
	Description        string `json:"channel_description"`
	Codec              int    `json:"channel_codec"`
	CodecQuality       int    `json:"channel_codec_quality"`
	MaxClients         int    `json:"channel_maxclients"`
	MaxFamilyClients   int    `json:"channel_maxfamilyclients"`
	Order              int    `json:"channel_order"`
	FlagPermanent      bool   `json:"channel_flag_permanent"`
	FlagSemiPermanent  bool   `json:"channel_flag_semi_permanent"`
	FlagDefault        bool   `json:"channel_flag_default"`
	FlagPassword       bool   `json:"channel_flag_password"`
	CodecLatencyFactor int    `json:"channel_codec_latency_factor"`
	CodecUnencrypted   bool   `json:"channel_codec_is_unencrypted"`
	DeleteDelay        int    `json:"channel_delete_delay"`
	NeededTalkPower    int    `json:"channel_needed_talk_power"`
	IconID             int64  `json:"channel_icon_id"`
	TotalClients       int    `json:"total_clients"`
	TotalClientsFamily int    `json:"total_clients_family"`
	SecondsEmpty       int64  `json:"seconds_empty"`
}

// ChannelInfo fetches the full view of one channel.
func (f *Facade) ChannelInfo(sessionID string, cid int) (*ChannelDetail, error) {
	rec, err := f.first(sessionID, query.Cmd("channelinfo", "cid", strconv.Itoa(cid)))
	if err != nil {
		return nil, err
	}

	detail := &ChannelDetail{
		ID:                 cid,
		ParentID:           rec.Int("pid"),
		Name:               rec.Str("channel_name"),
		Topic:              rec.Str("channel_topic"),
		Description:        rec.Str("channel_description"),
		Codec:              rec.Int("channel_codec"),
		CodecQuality:       rec.Int("channel_codec_quality"),
		MaxClients:         rec.Int("channel_maxclients"),
		MaxFamilyClients:   rec.Int("channel_maxfamilyclients"),
		Order:              rec.Int("channel_order"),
		FlagPermanent:      rec.Bool("channel_flag_permanent"),
		FlagSemiPermanent:  rec.Bool("channel_flag_semi_permanent"),
		FlagDefault:        rec.Bool("channel_flag_default"),
		FlagPassword:       rec.Bool("channel_flag_password"),
		CodecLatencyFactor: rec.Int("channel_codec_latency_factor"),
		CodecUnencrypted:   rec.Bool("channel_codec_is_unencrypted"),
		DeleteDelay:        rec.Int("channel_delete_delay"),
		NeededTalkPower:    rec.Int("channel_needed_talk_power"),
		IconID:             rec.Int64("channel_icon_id"),
		TotalClients:       rec.Int("total_clients"),
		TotalClientsFamily: rec.Int("total_clients_family"),
		SecondsEmpty:       rec.Int64("seconds_empty"),
	}

	return detail, nil
}

func mapServerInfo(r query.Record) ServerInfo {
	return ServerInfo{
		Name:           r.Str("virtualserver_name"),
		WelcomeMessage: r.Str("virtualserver_welcomemessage"),
		MaxClients:     r.Int("virtualserver_maxclients"),
		ClientsOnline:  r.Int("virtualserver_clientsonline"),
		Uptime:         r.Int64("virtualserver_uptime"),
		Version:        r.Str("virtualserver_version"),
		Platform:       r.Str("virtualserver_platform"),
	}
}

func mapChannel(r query.Record) Channel {
	return Channel{
		ID:                   r.Int("cid"),
		ParentID:             r.Int("pid"),
		Name:                 r.Str("channel_name"),
		Order:                r.Int("channel_order"),
		TotalClients:         r.Int("total_clients"),
		NeededSubscribePower: r.Int("channel_needed_subscribe_power"),
	}
}

func mapClient(r query.Record) Client {
	return Client{
		ID:                 r.Int("clid"),
		ChannelID:          r.Int("cid"),
		Nickname:           r.Str("client_nickname"),
		Type:               r.Int("client_type"),
		Away:               r.Bool("client_away"),
		AwayMessage:        r.Str("client_away_message"),
		InputMuted:         r.Bool("client_input_muted"),
		OutputMuted:        r.Bool("client_output_muted"),
		IsChannelCommander: r.Bool("client_is_channel_commander"),
		IsTalker:           r.Bool("client_is_talker"),
	}
}

// parseIDList splits a comma-separated id list ("6,13") into ints,
// dropping anything malformed.
func parseIDList(s string) []int {
	if s == "" {
		return nil
	}

	var ids []int

	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if n, err := strconv.Atoi(s[start:i]); err == nil {
				ids = append(ids, n)
			}
			start = i + 1
		}
	}

	return ids
}
