package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"bandwatch/internal/platform/config"
	"bandwatch/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server wraps a chi mux behind a stdlib http.Server with graceful stop
type Server struct {
	addr     string
	mux      *chi.Mux
	srv      *stdhttp.Server
	drainFor time.Duration
}

// NewServer builds a server from config
// API_PORT picks the bind address, API_DRAIN_TIMEOUT bounds graceful shutdown
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	addr := cfg.MayString("API_PORT", ":4000")
	return &Server{
		addr:     addr,
		mux:      m,
		drainFor: cfg.MayDuration("API_DRAIN_TIMEOUT", 10*time.Second),
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until the listener fails or ctx is cancelled,
// draining in-flight requests before returning
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	log.Info().Str("addr", s.addr).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if err == stdhttp.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("http draining")
		drainCtx, cancel := context.WithTimeout(context.Background(), s.drainFor)
		defer cancel()
		return s.srv.Shutdown(drainCtx)
	}
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
