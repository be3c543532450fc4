package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/utils"
)

type AuthController struct {
	Staff *services.StaffService
}

func NewAuthController(staff *services.StaffService) *AuthController {
	return &AuthController{Staff: staff}
}

// Login user -> return JWT
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	user, role, err := ac.Staff.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		utils.ErrorLogger.Printf("Failed login for %s", input.Email)
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, role.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, role.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": role.Role,
		"full_name": role.FullName,
		"redirect":  homeFor(role.Role),
	})
}

// Logout revokes the presented token until it would have expired anyway.
func (ac *AuthController) Logout(c *gin.Context) {
	s := session(c)
	until := time.Now().Add(24 * time.Hour)
	if claims, err := utils.ParseToken(s.Token); err == nil && claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(s.Token, until)

	utils.RespondJSON(c, http.StatusOK, "Logged out", gin.H{"redirect": "/login"})
}

// GetProfile returns the signed-in user with their role and language.
func (ac *AuthController) GetProfile(c *gin.Context) {
	s := session(c)
	role, err := ac.Staff.Role(c.Request.Context(), s.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", gin.H{
		"session": s,
		"profile": role,
	})
}

func homeFor(role string) string {
	if role == utils.RoleOwner {
		return "/admin"
	}
	return "/staff/dashboard"
}
