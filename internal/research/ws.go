package research

import (
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/arcscan/arcscan-api/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

const watchInterval = time.Second

// WatchSession streams session snapshots over a WebSocket until the session
// reaches a terminal state or the client disconnects. It is a push
// alternative to polling GetStatus.
// GET /api/research/sessions/:id/watch.
func (h *Handler) WatchSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	log := h.service.logger.WithContext(c.Request.Context()).WithComponent("research.watch")

	if _, found := h.service.GetStatus(id); !found {
		apperrors.AbortWithNotFound(c, "research session not found", nil)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("failed to upgrade connection to websocket", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	log.Info("websocket watch established", slog.Int("session_id", id))

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		sess, found := h.service.GetStatus(id)
		if !found {
			return
		}

		if err := conn.WriteJSON(statusResponse(sess)); err != nil {
			log.Info("websocket watch closed by client", slog.Int("session_id", id))
			return
		}

		if sess.Status == StatusCompleted || sess.Status == StatusError {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "research finished")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return
		}

		select {
		case <-ticker.C:
		case <-c.Request.Context().Done():
			return
		}
	}
}
