package handlers

import (
	"github.com/gin-gonic/gin"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/events"
	"github.com/mbmkongo/caisse_management_app/internal/middleware"
	"github.com/mbmkongo/caisse_management_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	hub *events.Hub,
	loginLimiter gin.HandlerFunc,
) {
	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	// Public authentication routes
	registerAuthRoutes(r, cfg, services, loginLimiter)

	// Authenticated API v1 routes
	setupAPIV1Routes(r, cfg, services, hub)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	hub *events.Hub,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User)
	registerEntryRoutes(v1, services.Entry)
	registerBalanceRoutes(v1, services.Balance)
	registerSessionRoutes(v1, services.Session)
	registerClosureRoutes(v1, services.Closure)
	registerEventRoutes(v1, hub)
}
