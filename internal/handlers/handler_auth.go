package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
	"github.com/mbmkongo/caisse_management_app/internal/middleware"
	"github.com/mbmkongo/caisse_management_app/internal/utils"
	"github.com/mbmkongo/caisse_management_app/pkg/config"
)

// authHandler handles authentication requests.
type authHandler struct {
	userSvc portssvc.UserSvcFacade
	cfg     *config.Config
}

func newAuthHandler(userSvc portssvc.UserSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{userSvc: userSvc, cfg: cfg}
}

// login verifies credentials and issues a signed access token.
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, err := h.userSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateJWT(user.UserID, h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to sign access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	})
}

// registerAuthRoutes registers the public authentication routes. The login
// endpoint carries its own rate limit on top of the global one.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, loginLimiter gin.HandlerFunc) {
	handler := newAuthHandler(services.User, cfg)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimiter, handler.login)
	}
}
