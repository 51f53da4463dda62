package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// Server wraps http.Server with graceful shutdown capabilities shared by
// the cache and store binaries.
type Server struct {
	name            string
	httpServer      *http.Server
	shutdownTimeout time.Duration
	onShutdown      func()
}

// NewServer creates a new Server instance with optimized settings. name
// identifies the calling binary ("cacheserver" or "storeserver") in its
// log lines. onShutdown, if non-nil, runs after the HTTP listener has
// drained in-flight requests but before Shutdown returns — the cache
// engine's sweep goroutine and the store's backup manager get to flush
// inside the same graceful-shutdown deadline instead of racing an
// uncoordinated defer in main.
func NewServer(name string, handler http.Handler, port string, onShutdown func()) *Server {
	return &Server{
		name: name,
		httpServer: &http.Server{
			Addr:           ":" + port,
			Handler:        handler,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1MB
		},
		shutdownTimeout: 10 * time.Second,
		onShutdown:      onShutdown,
	}
}

// Run starts the server and blocks until shutdown signal is received.
func (s *Server) Run() error {
	errChan := make(chan error, 1)

	go func() {
		log.Info().Str("service", s.name).Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Info().Str("service", s.name).Str("signal", sig.String()).Msg("received signal, initiating graceful shutdown")
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the HTTP listener and then runs the
// registered domain shutdown hook, if any.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Str("service", s.name).Err(err).Msg("server forced to shutdown")
		return err
	}

	if s.onShutdown != nil {
		s.onShutdown()
	}

	log.Info().Str("service", s.name).Msg("server stopped gracefully")
	return nil
}
