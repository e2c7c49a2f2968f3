package handlers

import (
	"net/http"

	"github.com/Bips27/tiffinly-daily-bites/middleware"
	"github.com/Bips27/tiffinly-daily-bites/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is token-authenticated; origin checks add nothing for a
	// mobile client
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TrackMeals upgrades the connection to a websocket and streams the caller's
// meal updates (delivery-status changes and customization commits) until the
// client disconnects.
func TrackMeals(c *gin.Context) {
	userID := middleware.GetUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Websocket upgrade failed"})
		return
	}

	client := &realtime.Client{UserID: userID, Conn: conn}
	Hub.Register(client)
	Log.Infow("tracking client connected", "user_id", userID)

	// Reader loop exists only to detect disconnects; clients don't send
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	Hub.Unregister(client)
	Log.Infow("tracking client disconnected", "user_id", userID)
}
