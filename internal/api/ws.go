package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/querykit/ts3-console/internal/fanout"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second

	// wsSendBuffer bounds the per-connection queue. A client that cannot
	// keep up loses messages rather than stalling the hub; the UI recovers
	// by re-listing the log store.
	wsSendBuffer = 256
)

// handleWebsocket upgrades the connection and streams hub messages to it
// until the peer goes away.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Debug("Websocket upgrade failed")
		return
	}

	send := make(chan fanout.Message, wsSendBuffer)

	cancel := s.deps.Hub.Subscribe(func(msg fanout.Message) {
		select {
		case send <- msg:
		default:
			s.log.WithField("remote", conn.RemoteAddr().String()).
				Warn("Dropping event for slow websocket client")
		}
	})

	s.log.WithField("remote", conn.RemoteAddr().String()).Debug("Websocket client attached")

	done := make(chan struct{})

	// Reader exists only to observe the close handshake.
	go func() {
		defer close(done)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)

	defer func() {
		cancel()
		ticker.Stop()
		conn.Close()
		s.log.WithField("remote", conn.RemoteAddr().String()).Debug("Websocket client detached")
	}()

	for {
		select {
		case msg := <-send:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))

			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
