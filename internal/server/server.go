package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/rkandala/newsrag/internal/adapter/utils"
	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/handlers"
	"github.com/rkandala/newsrag/internal/middleware"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

// Server wraps the http.Server plus the channels the shutdown path
// needs to drain workers before exiting.
type Server struct {
	httpServer *http.Server
	logger     *logger_i.Logger
}

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

func New(listenAddr string, h *handlers.Handler, mcpHandler http.Handler) *Server {
	r := utils.NewRouter()

	r.Router.Get("/healthz", middleware.Wrap(h.GetHandler))
	r.Router.Post("/ingest", middleware.Wrap(h.PostIngestHandler))
	r.Router.Get("/status/{id}", middleware.Wrap(h.GetStatusHandler))
	r.Router.Get("/search", middleware.Wrap(h.GetSearchHandler))
	r.Router.Get("/documents/count", middleware.Wrap(h.GetCountHandler))
	if mcpHandler != nil {
		r.Router.Handle("/mcp", mcpHandler)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         listenAddr,
			Handler:      r.Router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: logger_i.NewLogger("Server"),
	}
}

func (s *Server) Run() {
	s.logger.Info("Server is listening", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server crashed", "error", err.Error(), "addr", s.httpServer.Addr)
	}
}

func (s *Server) ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	s.logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		s.httpServer.SetKeepAlivesEnabled(false)

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("Could not shutdown gracefully", "error", err)
		}

		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Graceful shutdown complete")
	case <-ctx.Done():
		s.logger.Info("Force shut down")
		os.Exit(1)
	}
}
