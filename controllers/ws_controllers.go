package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-booking/realtime"
	"github.com/yeremiapane/restaurant-booking/utils"
)

type RealtimeController struct {
	Hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewRealtimeController accepts upgrades from allowedOrigin only, or from anywhere when it is empty.
func NewRealtimeController(hub *realtime.Hub, allowedOrigin string) *RealtimeController {
	return &RealtimeController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if allowedOrigin == "" || allowedOrigin == "*" || origin == "" {
					return true
				}
				if origin == allowedOrigin {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
	}
}

// Serve upgrades the request and pumps change events to the client until it disconnects.
func (rc *RealtimeController) Serve(c *gin.Context) {
	s := session(c)

	ws, err := rc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed for %s: %v", s.UserID, err)
		return
	}

	client := realtime.NewClient(s.UserID, s.Role)
	utils.InfoLogger.Printf("Websocket client %s connected (user=%s role=%s)", client.ID, s.UserID, s.Role)
	rc.Hub.Serve(ws, client)
	utils.InfoLogger.Printf("Websocket client %s disconnected", client.ID)
}
