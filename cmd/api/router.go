package main

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/container"
)

// routeRegistrar is implemented by every domain handler.
type routeRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// healthCheck reports whether a backing service is reachable.
type healthCheck func(ctx context.Context) error

// dependency is a checked backing service. Only required ones degrade the health status.
type dependency struct {
	check    healthCheck
	required bool
}

type routerDeps struct {
	version      string
	tokens       middleware.TokenValidator
	store        cache.Cache
	accounts     middleware.AccountChecker
	dependencies map[string]dependency
	poolStats    func() *database.PoolStats
	modules      []routeRegistrar
}

func SetupRouter(c *container.Container) *gin.Engine {
	return newRouter(routerDeps{
		version:  c.Config.App.Version,
		tokens:   c.JWTManager,
		store:    c.Cache,
		accounts: c.UserService,
		dependencies: map[string]dependency{
			"database": {check: c.DB.HealthCheck, required: true},
			// Lockout and revocation degrade gracefully without Redis
			"cache": {check: c.Cache.Ping},
		},
		poolStats: c.DB.Stats,
		modules: []routeRegistrar{
			c.UserHandler,
			c.PostHandler,
			c.CommentHandler,
		},
	})
}

func newRouter(deps routerDeps) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found.")
	})

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheckHandler(deps))

	api := v1.Group("", middleware.Authenticate(deps.tokens, deps.store, deps.accounts))
	for _, m := range deps.modules {
		m.RegisterRoutes(api)
	}

	return router
}

// ========================================
// HEALTH CHECK
// ========================================

func healthCheckHandler(deps routerDeps) gin.HandlerFunc {
	dependencies := deps.dependencies
	names := make([]string, 0, len(dependencies))
	for name := range dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		services := gin.H{}
		for _, name := range names {
			dep := dependencies[name]
			if err := dep.check(ctx); err != nil {
				services[name] = "error: " + err.Error()
				if dep.required {
					status = "degraded"
				}
				continue
			}
			services[name] = "ok"
		}

		if status != "ok" {
			response.ErrorWithDetails(c, http.StatusServiceUnavailable,
				"SERVICE_UNAVAILABLE", "One or more dependencies are unavailable.", services)
			return
		}

		health := gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   deps.version,
			"services":  services,
		}
		if deps.poolStats != nil {
			if stats := deps.poolStats(); stats != nil {
				health["database_pool"] = stats
			}
		}

		response.Success(c, http.StatusOK, health)
	}
}
