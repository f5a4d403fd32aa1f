package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
	"github.com/mbmkongo/caisse_management_app/internal/middleware"
)

// userHandler handles user profile and admin user management requests.
type userHandler struct {
	userSvc portssvc.UserSvcFacade
}

func newUserHandler(userSvc portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userSvc: userSvc}
}

// getMe returns the authenticated user's own profile.
func (h *userHandler) getMe(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userSvc.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// createUser creates a user with a role. Admin only.
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createUser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// updateUser updates a user's identity fields. Admin only.
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateUser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userSvc.UpdateUser(c.Request.Context(), c.Param("userID"), req, actorUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// getUser retrieves one user profile.
func (h *userHandler) getUser(c *gin.Context) {
	user, err := h.userSvc.GetUserByID(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// listUsers lists all active users. Admin only.
func (h *userHandler) listUsers(c *gin.Context) {
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	users, err := h.userSvc.ListUsers(c.Request.Context(), requestingUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserResponses(users)})
}

// registerUserRoutes registers user profile and admin user routes.
func registerUserRoutes(group *gin.RouterGroup, userSvc portssvc.UserSvcFacade) {
	handler := newUserHandler(userSvc)

	users := group.Group("/users")
	{
		users.GET("/me", handler.getMe)
		users.POST("", handler.createUser)
		users.GET("", handler.listUsers)
		users.GET("/:userID", handler.getUser)
		users.PUT("/:userID", handler.updateUser)
	}
}
