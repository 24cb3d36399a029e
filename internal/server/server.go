package server

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/updrift/updrift/internal/api/handlers"
	"github.com/updrift/updrift/internal/api/middleware"
	"github.com/updrift/updrift/internal/api/validation"
	"github.com/updrift/updrift/internal/config"
	"github.com/updrift/updrift/internal/engine"
	"github.com/updrift/updrift/internal/logging"
	"github.com/updrift/updrift/internal/server/routes"
	"github.com/updrift/updrift/internal/store"
)

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	selector *store.Selector
	engine   *engine.Engine
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, selector *store.Selector, eng *engine.Engine) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely; all output goes through the
	// application logger.
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	return &Server{
		router:   gin.New(),
		cfg:      cfg,
		selector: selector,
		engine:   eng,
	}
}

// Init wires validators, middleware and routes. Call before Start.
func (s *Server) Init() error {
	validation.Register()

	logger := logging.GetGlobalLogger()
	routes.SetupGlobalMiddleware(s.router, logger, middleware.RateLimitConfig{
		RPS:   s.cfg.RateLimitRPS,
		Burst: s.cfg.RateLimitBurst,
	})

	h := &routes.Handlers{
		Update:      handlers.NewUpdateHandler(s.engine),
		ChannelSelf: handlers.NewChannelSelfHandler(s.engine),
		Health:      handlers.NewHealthHandler(s.selector),
		Reconcile:   handlers.NewReconcileHandler(s.selector),
	}
	routes.Setup(s.router, h)

	return nil
}

// Start starts the server
func (s *Server) Start() error {
	return s.router.Run(":" + s.cfg.Port)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
