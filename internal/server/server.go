// Package server exposes the expense-tracker HTTP API. Routes, payloads, and
// validation messages are the service's public contract; handlers delegate
// all persistence to the store.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"expensed/internal/auth"
	"expensed/internal/config"
	"expensed/internal/store"
)

// Server wires the gin engine, store, and auth manager.
type Server struct {
	cfg    *config.Config
	store  *store.Store
	log    *zap.Logger
	auth   *auth.Manager
	engine *gin.Engine
}

// New builds the router with all routes registered. Auth middleware is
// mounted on mutating routes only when enabled in config; reads and the
// healthcheck stay open either way.
func New(cfg *config.Config, st *store.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		cfg:   cfg,
		store: st,
		log:   log,
		auth:  auth.NewManager(cfg.Auth.SecretKey),
	}

	engine := gin.New()
	engine.Use(RequestID(), RequestLogger(log), gin.Recovery())
	s.engine = engine
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.engine

	e.GET("/healthcheck", s.handleHealthcheck)

	e.GET("/user/:id", s.handleGetUser)
	e.GET("/users", s.handleListUsers)
	e.GET("/user/:id/account", s.handleGetAccount)
	e.GET("/category", s.handleListCategories)
	e.GET("/record/:id", s.handleGetRecord)
	e.GET("/record", s.handleListRecords)

	mut := e.Group("")
	if s.cfg.Auth.Enabled {
		mut.Use(s.auth.Middleware())
	}
	mut.POST("/user", s.handleCreateUser)
	mut.DELETE("/user/:id", s.handleDeleteUser)
	mut.POST("/user/:id/account/deposit", s.handleDeposit)
	mut.POST("/category", s.handleCreateCategory)
	mut.DELETE("/category", s.handleDeleteCategory)
	mut.POST("/record", s.handleCreateRecord)
	mut.DELETE("/record/:id", s.handleDeleteRecord)
}

// Handler returns the router as an http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run binds 0.0.0.0 on the configured port and serves until ctx is
// cancelled, then shuts down gracefully. Bind errors (occupied or invalid
// port) are returned before any request is served.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.cfg.Addr(), err)
	}

	srv := &http.Server{Handler: s.engine}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.GetShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	s.log.Info("server listening", zap.String("addr", s.cfg.Addr()))
	return g.Wait()
}
