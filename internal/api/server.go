package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/htm-project/htm-core/internal/handlers"
	"github.com/htm-project/htm-core/internal/infrastructure/config"
	"github.com/htm-project/htm-core/internal/ports"
)

// Server is the HTTP front of the HTM core.
type Server struct {
	config *config.Config
	server *http.Server
}

// NewServer assembles the full HTTP stack over a model service.
func NewServer(cfg *config.Config, modelService ports.ModelService) *Server {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	router := NewRouter(cfg,
		handlers.NewModelHandler(modelService),
		handlers.NewHealthHandler(cfg.API.Version),
	)
	router.SetupRoutes(engine)

	return &Server{
		config: cfg,
		server: &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully within the
// configured timeout.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
