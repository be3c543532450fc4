package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/storage"
	"github.com/yeremiapane/restaurant-booking/utils"
)

// respondServiceError maps service errors to status codes. Anything
// unrecognised is logged and answered with a generic 500.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondValidation(c, verr.Fields)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrAlreadyClockedIn),
		errors.Is(err, services.ErrNotClockedIn),
		errors.Is(err, services.ErrTransitionNotOffered),
		errors.Is(err, services.ErrSubmissionInFlight),
		errors.Is(err, services.ErrEmailTaken):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrUnknownAction),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrNoReceiver),
		errors.Is(err, services.ErrCommentRequired),
		errors.Is(err, storage.ErrUnsupportedType):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, storage.ErrTooLarge):
		utils.RespondError(c, http.StatusRequestEntityTooLarge, err)
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrNoSender):
		utils.RespondErrorData(c, http.StatusUnauthorized, err, gin.H{"redirect": "/login"})
	case errors.Is(err, services.ErrRoleAssignment):
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, http.StatusInternalServerError, services.ErrRoleAssignment)
	default:
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.Error(err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("something went wrong, please try again"))
	}
}

// bindJSON binds the body and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return false
	}
	return true
}

func session(c *gin.Context) utils.Session {
	s, _ := utils.GetSession(c)
	if s.Language == "" {
		s.Language = utils.RequestLanguage(c)
	}
	return s
}
