package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/restaurant-booking/events"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/gorm"
)

type FeedbackInput struct {
	Rating       int     `json:"rating" binding:"required" validate:"min=1,max=5"`
	Comment      string  `json:"comment"`
	CustomerName *string `json:"customer_name"`
}

// FeedbackResult tells the caller which page follows the rating.
type FeedbackResult struct {
	Branch    FeedbackBranch `json:"branch"`
	ReviewURL string         `json:"review_url,omitempty"`
	Review    *models.Review `json:"review,omitempty"`
}

type ReviewService struct {
	DB        *gorm.DB
	Events    events.Publisher
	ReviewURL string
}

func NewReviewService(db *gorm.DB, reviewURL string) *ReviewService {
	return &ReviewService{DB: db, Events: events.Noop{}, ReviewURL: reviewURL}
}

// Submit routes high ratings to the public review site without storing
// anything. Low ratings need a comment and are kept for the owner.
func (s *ReviewService) Submit(ctx context.Context, in FeedbackInput) (*FeedbackResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	branch := BranchFor(in.Rating)
	if branch == BranchExternalReview {
		return &FeedbackResult{Branch: branch, ReviewURL: s.ReviewURL}, nil
	}

	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, ErrCommentRequired
	}
	review := models.Review{Rating: in.Rating, Comment: comment, CustomerName: in.CustomerName}
	if review.CustomerName != nil && strings.TrimSpace(*review.CustomerName) == "" {
		review.CustomerName = nil
	}
	if err := s.DB.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Review %s stored with rating %d", review.ID, review.Rating)
	if err := s.Events.Publish(ctx, events.EventReviewSubmitted, review.ID, review); err != nil {
		utils.ErrorLogger.Printf("Error publishing %s: %v", events.EventReviewSubmitted, err)
	}
	return &FeedbackResult{Branch: branch, Review: &review}, nil
}

// List returns reviews newest first.
func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}
