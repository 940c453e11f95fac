// Package main provides the entry point for ts3-consoled.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/querykit/ts3-console/internal/api"
	"github.com/querykit/ts3-console/internal/config"
	"github.com/querykit/ts3-console/internal/facade"
	"github.com/querykit/ts3-console/internal/fanout"
	"github.com/querykit/ts3-console/internal/logstore"
	"github.com/querykit/ts3-console/internal/metrics"
	"github.com/querykit/ts3-console/internal/notify"
	"github.com/querykit/ts3-console/internal/query"
	"github.com/querykit/ts3-console/internal/session"
	"github.com/querykit/ts3-console/internal/store"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ts3-consoled",
	Short: "Backend daemon for the TeamSpeak 3 admin console",
	Long:  "Manages ServerQuery sessions against TeamSpeak 3 servers and exposes a local HTTP/websocket API for the console UI.",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")

	rootCmd.MarkFlagRequired("config")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}

	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	db, err := store.Open(log, cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	m := metrics.New()
	hub := fanout.NewHub()

	logs := logstore.NewStore(log, db, func(sessionID string, entry logstore.Entry) {
		m.LogEntriesTotal.Inc()
		hub.LogEntry(sessionID, entry)
	})

	// Track the live session count off the hub's state messages.
	hub.Subscribe(func(msg fanout.Message) {
		switch {
		case msg.Type != fanout.TypeSessionState:
		case msg.State == fanout.StateConnected:
			m.SessionsActive.Inc()
		case msg.State == fanout.StateDisconnected:
			m.SessionsActive.Dec()
		}
	})

	dialer := query.NewDialer(log, query.DialerConfig{
		ConnectTimeout: cfg.Query.ConnectTimeout,
		CommandTimeout: cfg.Query.CommandTimeout,
	})

	sessions := session.NewRegistry(log, session.Config{
		Nickname: cfg.Query.Nickname,
	}, dialer, logs, hub)

	ops := facade.New(log, sessions)

	server := api.NewServer(log, cfg.Server, api.Deps{
		Store:    db,
		Logs:     logs,
		Sessions: sessions,
		Ops:      ops,
		Hub:      hub,
		Metrics:  m,
	})

	var relay *notify.Relay

	if cfg.DiscordEnabled() {
		relay = notify.NewRelay(log, notify.Config{
			Token:     cfg.Discord.Token,
			ChannelID: cfg.Discord.ChannelID,
		}, hub)

		if err := relay.Start(); err != nil {
			return fmt.Errorf("failed to start Discord relay: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info("Received shutdown signal")
		cancel()
	}()

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down API server")
	}

	if relay != nil {
		if err := relay.Stop(); err != nil {
			log.WithError(err).Warn("Error stopping Discord relay")
		}
	}

	if err := sessions.Close(); err != nil {
		log.WithError(err).Warn("Error closing sessions")
	}

	log.Info("Shutdown complete")

	return nil
}
