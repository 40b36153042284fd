// Package api exposes the triage engine over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mediguard-triage-server/internal/catalog"
	"github.com/mediguard-triage-server/internal/domain"
	"github.com/mediguard-triage-server/internal/feedback"
	"github.com/mediguard-triage-server/internal/middleware"
	"github.com/mediguard-triage-server/internal/service"
)

// serverVersion is reported by the health endpoint.
const serverVersion = "1.0.0"

// Server represents the HTTP server.
type Server struct {
	configManager domain.ConfigManager
	catalog       *catalog.Catalog
	predictor     *service.Predictor
	store         feedback.Store
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. The feedback store may be
// nil, in which case feedback endpoints respond with 503.
func NewServer(
	configManager domain.ConfigManager,
	cat *catalog.Catalog,
	predictor *service.Predictor,
	store feedback.Store,
	logger *logrus.Logger,
) *Server {
	cfg := configManager.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit)
		router.Use(limiter.Middleware())
	}

	server := &Server{
		configManager: configManager,
		catalog:       cat,
		predictor:     predictor,
		store:         store,
		logger:        logger,
		router:        router,
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/predict", s.handlePredict)
		v1.GET("/biomarkers", s.handleListBiomarkers)
		v1.GET("/categories", s.handleListCategories)
		v1.GET("/template/:format", s.handleTemplate)
		v1.GET("/references", s.handleQueryReferences)
		v1.POST("/feedback", s.handleSaveFeedback)
		v1.GET("/feedback", s.handleListFeedback)
		v1.GET("/feedback/:case_id", s.handleGetFeedback)
	}
}

// corsMiddleware adds CORS headers to responses.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Correlation-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Correlation-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
