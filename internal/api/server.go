// Package api exposes the console's local HTTP surface: connection profile
// management, session control, the admin operation catalog and a websocket
// event stream. The server binds to loopback by default; it is the boundary
// the desktop UI talks to.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/querykit/ts3-console/internal/config"
	"github.com/querykit/ts3-console/internal/facade"
	"github.com/querykit/ts3-console/internal/fanout"
	"github.com/querykit/ts3-console/internal/logstore"
	"github.com/querykit/ts3-console/internal/metrics"
	"github.com/querykit/ts3-console/internal/session"
	"github.com/querykit/ts3-console/internal/store"
)

// Deps carries the components the server routes requests to.
type Deps struct {
	Store    *store.DB
	Logs     *logstore.Store
	Sessions *session.Registry
	Ops      *facade.Facade
	Hub      *fanout.Hub
	Metrics  *metrics.Metrics
}

// Server is the local HTTP and websocket server.
type Server struct {
	log      logrus.FieldLogger
	cfg      config.ServerConfig
	deps     Deps
	httpSrv  *http.Server
	upgrader websocket.Upgrader
}

// NewServer creates the server with its routes wired.
func NewServer(log logrus.FieldLogger, cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{
		log:  log.WithField("component", "api"),
		cfg:  cfg,
		deps: deps,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The UI is served from a local origin that does not match
			// the API's; the server is loopback-only so this is safe.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	s.httpSrv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", s.deps.Metrics.Handler().ServeHTTP)
	r.Get("/ws", s.handleWebsocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.handleProfileList)
			r.Post("/", s.handleProfileSave)
			r.Get("/{id}", s.handleProfileGet)
			r.Put("/{id}", s.handleProfileSave)
			r.Delete("/{id}", s.handleProfileDelete)
		})

		r.Get("/sessions", s.handleSessionList)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Post("/connect", s.handleConnect)
			r.Post("/disconnect", s.handleDisconnect)

			r.Get("/logs", s.handleLogList)
			r.Delete("/logs", s.handleLogClear)

			r.Get("/server", s.handleServerInfo)
			r.Patch("/server", s.handleServerEdit)
			r.Get("/topology", s.handleTopology)
			r.Get("/serverlogs", s.handleServerLogs)

			r.Get("/clients/{clid}", s.handleClientInfo)
			r.Post("/clients/{clid}/kick", s.handleKick)
			r.Post("/clients/{clid}/ban", s.handleBanClient)
			r.Post("/clients/{clid}/poke", s.handlePoke)
			r.Post("/clients/{clid}/move", s.handleMove)

			r.Post("/messages", s.handleSendMessage)

			r.Get("/bans", s.handleBanList)
			r.Post("/bans", s.handleBanAdd)
			r.Delete("/bans/{banid}", s.handleBanDel)

			r.Get("/groups", s.handleGroupList)
			r.Post("/groups", s.handleGroupCopy)
			r.Delete("/groups/{sgid}", s.handleGroupDel)
			r.Post("/groups/{sgid}/rename", s.handleGroupRename)
			r.Get("/groups/{sgid}/clients", s.handleGroupClients)
			r.Put("/groups/{sgid}/clients/{cldbid}", s.handleGroupAddClient)
			r.Delete("/groups/{sgid}/clients/{cldbid}", s.handleGroupDelClient)
			r.Get("/groups/{sgid}/permissions", s.handleGroupPermList)
			r.Post("/groups/{sgid}/permissions", s.handleGroupAddPerm)
			r.Delete("/groups/{sgid}/permissions/{permsid}", s.handleGroupDelPerm)

			r.Get("/permissions", s.handlePermissionList)

			r.Get("/channels/{cid}", s.handleChannelInfo)
			r.Post("/channels", s.handleChannelCreate)
			r.Patch("/channels/{cid}", s.handleChannelEdit)
			r.Delete("/channels/{cid}", s.handleChannelDelete)

			r.Get("/database/clients", s.handleDBClientList)
			r.Get("/database/clients/{cldbid}", s.handleDBClientInfo)
			r.Patch("/database/clients/{cldbid}", s.handleDBClientEdit)
			r.Delete("/database/clients/{cldbid}", s.handleDBClientDelete)

			r.Get("/tokens", s.handleTokenList)
			r.Post("/tokens", s.handleTokenAdd)
			r.Delete("/tokens/{token}", s.handleTokenDelete)

			r.Get("/complaints", s.handleComplaintList)
			r.Post("/complaints", s.handleComplaintAdd)
			r.Delete("/complaints/{tcldbid}", s.handleComplaintDel)

			r.Get("/files", s.handleFileList)
			r.Get("/files/info", s.handleFileInfo)
			r.Post("/files/directory", s.handleFileMkdir)
			r.Post("/files/rename", s.handleFileRename)
			r.Delete("/files", s.handleFileDelete)
		})
	})

	return r
}

// Start begins serving and blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.cfg.ListenAddr).Info("API server listening")

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondData(w, map[string]string{"status": "ok"})
}

// countRequests feeds the request counter, labelled by status class.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.deps.Metrics.RequestsTotal.WithLabelValues(strconv.Itoa(ww.Status()/100) + "xx").Inc()
	})
}
