package services

// FeedbackBranch is the page shown after a rating is picked.
type FeedbackBranch string

const (
	// BranchExternalReview sends happy guests to the public review site.
	BranchExternalReview FeedbackBranch = "external_review"
	// BranchInternal asks for a private comment to the manager.
	BranchInternal FeedbackBranch = "internal"
)

const highRatingThreshold = 4

func BranchFor(rating int) FeedbackBranch {
	if rating >= highRatingThreshold {
		return BranchExternalReview
	}
	return BranchInternal
}
