package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/mbmkongo/caisse_management_app/internal/events"
	"github.com/mbmkongo/caisse_management_app/internal/middleware"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// eventsHandler streams ledger change events over a websocket so dashboards
// can re-fetch balances without polling.
type eventsHandler struct {
	hub *events.Hub
}

func newEventsHandler(hub *events.Hub) *eventsHandler {
	return &eventsHandler{hub: hub}
}

// stream upgrades the connection and forwards hub events until the client
// goes away. Events are refresh hints; a dropped one only delays a refresh
// until the next event, so slow clients are never allowed to backpressure
// the ledger writers.
func (h *eventsHandler) stream(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Cross-origin is handled by the CORS middleware
	})
	if err != nil {
		logger.Warn("Websocket accept failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	ch, cancel := h.hub.Subscribe(32)
	defer cancel()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case evt, ok := <-ch:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err := wsjson.Write(ctx, conn, evt); err != nil {
				logger.Debug("Websocket write failed, dropping subscriber", slog.String("error", err.Error()))
				return
			}
		}
	}
}

// registerEventRoutes registers the ledger change feed.
func registerEventRoutes(group *gin.RouterGroup, hub *events.Hub) {
	handler := newEventsHandler(hub)
	group.GET("/events/ws", handler.stream)
}
