package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lanwatch/internal/api/middleware"
	av1 "lanwatch/internal/api/v1"
	"lanwatch/internal/config"
)

// Router handles all routing logic
type Router struct {
	engine *gin.Engine
	config *config.Config
	logger *zap.Logger
}

// NewRouter creates and configures a new router
func NewRouter(cfg *config.Config, store av1.DeviceStore, scheduler av1.ScanController, logger *zap.Logger) *Router {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine: gin.New(),
		config: cfg,
		logger: logger,
	}

	r.setupMiddleware()
	r.setupAPIV1(store, scheduler)
	r.setupStatic()

	return r
}

// Handler returns the HTTP handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// setupMiddleware configures all middleware
func (r *Router) setupMiddleware() {
	m := middleware.New(r.config, r.logger)

	r.engine.Use(m.RequestID())
	r.engine.Use(m.Logger())
	r.engine.Use(m.Recovery())
	r.engine.Use(m.Secure())

	if r.config.Server.CORS.Enabled {
		r.engine.Use(m.Cors())
	}
}

// setupAPIV1 configures v1 API routes
func (r *Router) setupAPIV1(store av1.DeviceStore, scheduler av1.ScanController) {
	api := av1.NewAPI(store, scheduler, r.logger)

	m := middleware.New(r.config, r.logger)
	v1Router := r.engine.Group("/api/v1")

	// polling clients must always see fresh registry state
	v1Router.Use(m.NoCache())

	api.RegisterRoutes(v1Router)
}

// setupStatic serves the dashboard frontend when configured
func (r *Router) setupStatic() {
	if r.config.Server.StaticDir == "" {
		return
	}
	r.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(r.config.Server.StaticDir))))
}
