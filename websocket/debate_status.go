package websocket

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/mongo"

	"contendo/db"
	"contendo/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// statusFrame is one progress update pushed to a watching client.
type statusFrame struct {
	DebateID string `json:"debateId"`
	Status   string `json:"status"`
	Turns    int    `json:"turns"`
	Summary  string `json:"summary,omitempty"`
	Error    string `json:"error,omitempty"`
}

const pollInterval = 2 * time.Second

// DebateStatusHandler streams the progress of a running debate: status and
// turn count every poll tick, a final frame once the debate reaches done or
// error. The generation pipeline itself never depends on this stream.
func DebateStatusHandler(store *db.MongoDebateStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userId")
		debateID := c.Param("id")

		debate, err := store.GetDebate(c.Request.Context(), debateID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Debate no encontrado."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo cargar el debate."})
			return
		}
		if debate.Visibility == models.VisibilityPrivate && debate.CreatedBy != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "No tienes acceso a este debate."})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			debate, err := store.GetDebate(c.Request.Context(), debateID)
			if err != nil {
				log.Printf("status poll failed for debate %s: %v", debateID, err)
				return
			}
			turns, err := store.GetTurns(c.Request.Context(), debateID)
			if err != nil {
				log.Printf("status poll failed for debate %s: %v", debateID, err)
				return
			}

			frame := statusFrame{
				DebateID: debate.ID,
				Status:   debate.Status,
				Turns:    len(turns),
				Summary:  debate.Summary,
				Error:    debate.Error,
			}
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
			if debate.Status != models.StatusRunning {
				return
			}

			select {
			case <-ticker.C:
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}
