package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
	"github.com/mbmkongo/caisse_management_app/internal/middleware"
)

// sessionHandler handles the daily cash-session lifecycle.
type sessionHandler struct {
	sessionSvc portssvc.SessionSvcFacade
}

func newSessionHandler(sessionSvc portssvc.SessionSvcFacade) *sessionHandler {
	return &sessionHandler{sessionSvc: sessionSvc}
}

// assignOpening upserts a cashier's starting balance. Supervisor only.
func (h *sessionHandler) assignOpening(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AssignOpeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for assignOpening", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	supervisorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.sessionSvc.AssignOpeningBalance(c.Request.Context(), req, supervisorUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, balance)
}

// getSession projects the cashier's current session state and balances.
func (h *sessionHandler) getSession(c *gin.Context) {
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, err := h.sessionSvc.GetSession(c.Request.Context(), c.Param("cashierID"), requestingUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// transfer records a balanced TRF-OUT/TRF-IN pair from the acting cashier.
func (h *sessionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.sessionSvc.TransferToSupervisor(c.Request.Context(), req, actorUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// registerSessionRoutes registers session lifecycle routes.
func registerSessionRoutes(group *gin.RouterGroup, sessionSvc portssvc.SessionSvcFacade) {
	handler := newSessionHandler(sessionSvc)

	sessions := group.Group("/sessions")
	{
		sessions.POST("/opening", handler.assignOpening)
		sessions.POST("/transfer", handler.transfer)
		sessions.GET("/:cashierID", handler.getSession)
	}
}
