package handlers

import (
	"net/http"

	"livesocial_backend/internal/logger"
	"livesocial_backend/internal/service"
	"livesocial_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth identifies the user; the socket carries no cookies.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Websocket upgrades the connection and attaches it to the presence hub.
// Browsers cannot set headers on websocket dials, so the token rides in
// the query string.
func (h *Handler) Websocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}

	userID, err := service.ParseJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Debug("ws upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := ws.NewClient(userID, conn, h.Hub)
	h.Hub.Register(client)
	go client.Run()
}
