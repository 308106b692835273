package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/socialspark/socialspark/internal/config"
	"github.com/socialspark/socialspark/internal/logging"
	"github.com/socialspark/socialspark/web"
)

// Server owns the gin engine and the HTTP listener.
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	httpSrv *http.Server
}

// NewServer builds the gin engine, registers routes, and prepares the
// listener on the configured port.
func NewServer(cfg *config.Config, handler *Handler) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logging.GinLogrusLogger())
	engine.Use(logging.GinLogrusRecovery())

	registerRoutes(engine, handler)

	return &Server{
		cfg:    cfg,
		engine: engine,
		httpSrv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func registerRoutes(engine *gin.Engine, handler *Handler) {
	engine.POST("/generatePost", handler.GeneratePost)
	engine.POST("/generateImage", handler.GenerateImage)

	auth := engine.Group("/auth")
	auth.GET("/login", handler.Login)
	auth.GET("/callback", handler.Callback)
	auth.POST("/publish", handler.Publish)

	engine.StaticFS("/static", web.Assets())
	engine.GET("/", func(c *gin.Context) {
		// Serving the directory root lets net/http pick up index.html
		// without the /index.html redirect loop.
		c.FileFromFS("/", web.Assets())
	})
}

// Engine exposes the underlying gin engine. Used by tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts the listener down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown failed: %w", err)
	}
	return nil
}
