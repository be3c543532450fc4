package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/gorm"
)

// FallbackRoute is where a signed-in user lands after hitting a page their role cannot open.
func FallbackRoute(role string) string {
	if role == utils.RoleStaff {
		return "/admin"
	}
	return "/staff/dashboard"
}

// RoleCheck re-reads the caller's role from user_roles on every request.
// The role in the token is only a hint.
func RoleCheck(db *gorm.DB, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		session, ok := utils.GetSession(c)
		if !ok || session.UserID == "" {
			unauthorized(c, fmt.Errorf("unauthorized"))
			return
		}

		var userRole models.UserRole
		if err := db.WithContext(c.Request.Context()).First(&userRole, "user_id = ?", session.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				unauthorized(c, fmt.Errorf("no role assigned"))
				return
			}
			utils.ErrorLogger.Printf("Error loading role for %s: %v", session.UserID, err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("could not verify role"))
			c.Abort()
			return
		}

		if userRole.Role != session.Role {
			session.Role = userRole.Role
			utils.SetSession(c, session)
		}

		if !allowed[userRole.Role] {
			utils.RespondErrorData(c, http.StatusForbidden, fmt.Errorf("%s access required", roles[0]),
				gin.H{"redirect": FallbackRoute(userRole.Role)})
			c.Abort()
			return
		}

		c.Next()
	}
}
