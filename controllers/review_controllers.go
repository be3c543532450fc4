package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/utils"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{Reviews: reviews}
}

// SubmitFeedback answers with the branch the page should show next.
func (rc *ReviewController) SubmitFeedback(c *gin.Context) {
	var input services.FeedbackInput
	if !bindJSON(c, &input) {
		return
	}
	lang := session(c).Language

	result, err := rc.Reviews.Submit(c.Request.Context(), input)
	if errors.Is(err, services.ErrCommentRequired) {
		utils.RespondError(c, http.StatusBadRequest, errors.New(utils.T(lang, "feedback_comment_empty")))
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if result.Branch == services.BranchExternalReview {
		utils.RespondJSON(c, http.StatusOK, utils.T(lang, "feedback_high_rating"), gin.H{
			"branch":       result.Branch,
			"review_url":   result.ReviewURL,
			"button_label": utils.T(lang, "feedback_google_btn"),
		})
		return
	}
	utils.RespondJSON(c, http.StatusCreated, utils.T(lang, "feedback_thank_you"), result)
}

func (rc *ReviewController) GetAllReviews(c *gin.Context) {
	reviews, err := rc.Reviews.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reviews", reviews)
}
