package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-booking/utils"
)

// WebSocketAuthMiddleware accepts only upgrade requests. Browsers cannot
// set headers on a websocket handshake, so the token comes in ?token.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	auth := AuthMiddleware()
	return func(c *gin.Context) {
		if !websocket.IsWebSocketUpgrade(c.Request) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("websocket upgrade required"))
			c.Abort()
			return
		}
		auth(c)
	}
}
