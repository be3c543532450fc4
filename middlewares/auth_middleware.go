package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-booking/utils"
)

// LoginRoute is where unauthenticated callers are sent.
const LoginRoute = "/login"

func unauthorized(c *gin.Context, err error) {
	utils.RespondErrorData(c, http.StatusUnauthorized, err, gin.H{"redirect": LoginRoute})
	c.Abort()
}

// bearerToken reads the token from the Authorization header, falling back to ?token.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("token")
}

// AuthMiddleware validates the JWT and attaches the request session.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, errors.New("Authorization token missing"))
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			unauthorized(c, err)
			return
		}
		if claims.UserID == "" {
			unauthorized(c, errors.New("Invalid user ID in token"))
			return
		}

		utils.SetSession(c, utils.Session{
			UserID:   claims.UserID,
			Role:     claims.Role,
			Language: utils.RequestLanguage(c),
			Token:    token,
		})
		utils.InfoLogger.WithFields(logrus.Fields{"user_id": claims.UserID, "role": claims.Role}).
			Debugf("Authenticated %s %s", c.Request.Method, c.Request.URL.Path)

		c.Next()
	}
}

// LanguageMiddleware attaches an anonymous session carrying only the
// negotiated language, for public pages.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetSession(c); !ok {
			utils.SetSession(c, utils.Session{Language: utils.RequestLanguage(c)})
		}
		c.Next()
	}
}
