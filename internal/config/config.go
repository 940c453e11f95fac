// Package config handles loading and validation of daemon configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete daemon configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Query   QueryConfig   `yaml:"query"`
	Discord DiscordConfig `yaml:"discord"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds settings for the local API the UI talks to.
type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StorageConfig holds settings for the persistent key-value store.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

// QueryConfig holds ServerQuery connection behaviour shared by all sessions.
type QueryConfig struct {
	Nickname       string        `yaml:"nickname"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

// DiscordConfig holds settings for the optional Discord event relay.
// The relay is disabled unless both token and channel_id are set.
type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and parses the configuration from the given file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:   "127.0.0.1:8677",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Storage: StorageConfig{
			DataDir: "data",
		},
		Query: QueryConfig{
			Nickname:       "TS3 Console",
			ConnectTimeout: 10 * time.Second,
			CommandTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}

	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}

	if c.Query.ConnectTimeout < time.Second {
		return fmt.Errorf("query.connect_timeout must be at least 1s")
	}

	if c.Query.CommandTimeout < time.Second {
		return fmt.Errorf("query.command_timeout must be at least 1s")
	}

	if (c.Discord.Token == "") != (c.Discord.ChannelID == "") {
		return fmt.Errorf("discord.token and discord.channel_id must be set together")
	}

	return nil
}

// DiscordEnabled reports whether the Discord relay is configured.
func (c *Config) DiscordEnabled() bool {
	return c.Discord.Token != "" && c.Discord.ChannelID != ""
}
