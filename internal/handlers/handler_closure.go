package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
	"github.com/mbmkongo/caisse_management_app/internal/middleware"
)

// closureHandler handles end-of-day reconciliation requests.
type closureHandler struct {
	closureSvc portssvc.ClosureSvcFacade
}

func newClosureHandler(closureSvc portssvc.ClosureSvcFacade) *closureHandler {
	return &closureHandler{closureSvc: closureSvc}
}

// closeSession runs the closing event for a cashier.
func (h *closureHandler) closeSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for closeSession", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.closureSvc.CloseSession(c.Request.Context(), req, actorUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if resp.AlreadyClosed || resp.NothingToReconcile {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// getClosure retrieves the closure of a cashier for one calendar day.
func (h *closureHandler) getClosure(c *gin.Context) {
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	day, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	closure, err := h.closureSvc.GetClosure(c.Request.Context(), c.Param("cashierID"), day, requestingUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, closure)
}

// listClosures returns a page of closing events, newest first.
func (h *closureHandler) listClosures(c *gin.Context) {
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	resp, err := h.closureSvc.ListClosures(c.Request.Context(), limit, nextToken, requestingUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerClosureRoutes registers reconciliation routes.
func registerClosureRoutes(group *gin.RouterGroup, closureSvc portssvc.ClosureSvcFacade) {
	handler := newClosureHandler(closureSvc)

	closures := group.Group("/closures")
	{
		closures.POST("", handler.closeSession)
		closures.GET("", handler.listClosures)
		closures.GET("/:cashierID/:date", handler.getClosure)
	}
}
