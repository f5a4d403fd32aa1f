package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
	"github.com/mbmkongo/caisse_management_app/internal/middleware"
)

// entryHandler handles HTTP requests for ledger entries.
type entryHandler struct {
	entrySvc portssvc.EntrySvcFacade
}

func newEntryHandler(entrySvc portssvc.EntrySvcFacade) *entryHandler {
	return &entryHandler{entrySvc: entrySvc}
}

// createEntry records a new ledger entry.
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.entrySvc.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// listEntries returns a filtered page of the ledger.
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.entrySvc.ListEntries(c.Request.Context(), params, requestingUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry retrieves one entry by its business entry ID.
func (h *entryHandler) getEntry(c *gin.Context) {
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.entrySvc.GetEntryByID(c.Request.Context(), c.Param("entryID"), requestingUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// validateEntry moves a pending entry to VALIDE.
func (h *entryHandler) validateEntry(c *gin.Context) {
	h.resolveEntry(c, h.entrySvc.ValidateEntry)
}

// rejectEntry moves a pending entry to REJETE.
func (h *entryHandler) rejectEntry(c *gin.Context) {
	h.resolveEntry(c, h.entrySvc.RejectEntry)
}

func (h *entryHandler) resolveEntry(c *gin.Context, resolve func(ctx context.Context, id string, actorUserID string) (*domain.LedgerEntry, error)) {
	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := resolve(c.Request.Context(), c.Param("entryID"), actorUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// registerEntryRoutes registers ledger entry routes.
func registerEntryRoutes(group *gin.RouterGroup, entrySvc portssvc.EntrySvcFacade) {
	handler := newEntryHandler(entrySvc)

	entries := group.Group("/entries")
	{
		entries.POST("", handler.createEntry)
		entries.GET("", handler.listEntries)
		entries.GET("/:entryID", handler.getEntry)
		entries.POST("/:entryID/validate", handler.validateEntry)
		entries.POST("/:entryID/reject", handler.rejectEntry)
	}
}
