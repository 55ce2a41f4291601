// Package server exposes the routerd HTTP surface: the node channel
// endpoint plus a small operator admin API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/azsu/crossfwd/internal/config"
	"github.com/azsu/crossfwd/internal/hub"
	"github.com/azsu/crossfwd/internal/router"
)

const version = "1.0.0"

type Server struct {
	cfg     config.RouterConfig
	hub     *hub.Hub
	router  *router.Router
	log     zerolog.Logger
	engine  *gin.Engine
	started time.Time
}

func New(log zerolog.Logger, cfg config.RouterConfig, h *hub.Hub, rt *router.Router) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:     cfg,
		hub:     h,
		router:  rt,
		log:     log,
		engine:  gin.New(),
		started: time.Now(),
	}
	s.engine.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

// Handler exposes the route tree, mostly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.engine,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().
			Str("addr", s.cfg.ListenAddr).
			Str("channel", s.hub.Channel()).
			Msg("routerd listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
