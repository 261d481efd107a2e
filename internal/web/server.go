package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/workshot/workshot/internal/config"
)

type Server struct {
	handler *Handler
	server  *http.Server
}

func NewServer(cfg *config.Config, handler *Handler) *Server {
	mux := http.NewServeMux()
	handler.SetupRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		// No write timeout: /api/stream holds its connection open.
		IdleTimeout: 60 * time.Second,
	}

	return &Server{
		handler: handler,
		server:  httpServer,
	}
}

func (s *Server) Start() error {
	log.Info().Str("addr", "http://"+s.server.Addr).Msg("starting web server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down web server")
	return s.server.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return s.server.Addr
}
