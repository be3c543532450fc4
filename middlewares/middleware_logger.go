package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-booking/utils"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		entry := utils.InfoLogger.WithFields(logrus.Fields{"client_ip": c.ClientIP()})
		if session, ok := utils.GetSession(c); ok && session.UserID != "" {
			entry = entry.WithField("user_id", session.UserID)
		}
		if status >= 500 {
			utils.ErrorLogger.Printf("%s | %3d | %13v | %s | %s", c.Request.Method, status, latency, path, c.Errors.String())
			return
		}
		entry.Printf("%s | %3d | %13v | %s", c.Request.Method, status, latency, path)
	}
}
