package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "127.0.0.1:8677", cfg.Server.ListenAddr)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "TS3 Console", cfg.Query.Nickname)
	assert.Equal(t, 10*time.Second, cfg.Query.ConnectTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.DiscordEnabled())

	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_addr: "127.0.0.1:9000"
storage:
  data_dir: "/tmp/ts3-console"
query:
  nickname: "Admin Console"
  command_timeout: 30s
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.ListenAddr)
	assert.Equal(t, "/tmp/ts3-console", cfg.Storage.DataDir)
	assert.Equal(t, "Admin Console", cfg.Query.Nickname)
	assert.Equal(t, 30*time.Second, cfg.Query.CommandTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.Query.ConnectTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing listen addr",
			mutate:  func(c *Config) { c.Server.ListenAddr = "" },
			wantErr: "listen_addr",
		},
		{
			name:    "missing data dir",
			mutate:  func(c *Config) { c.Storage.DataDir = "" },
			wantErr: "data_dir",
		},
		{
			name:    "connect timeout too small",
			mutate:  func(c *Config) { c.Query.ConnectTimeout = 100 * time.Millisecond },
			wantErr: "connect_timeout",
		},
		{
			name:    "token without channel",
			mutate:  func(c *Config) { c.Discord.Token = "abc" },
			wantErr: "discord",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDiscordEnabled(t *testing.T) {
	cfg := Default()
	cfg.Discord.Token = "token"
	cfg.Discord.ChannelID = "123"

	assert.True(t, cfg.DiscordEnabled())
	require.NoError(t, cfg.Validate())
}
