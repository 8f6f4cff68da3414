package helpers

import (
	"time"

	"sublease-marketplace/internal/models"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type ReviewResponse struct {
	ID         string       `json:"id"`
	ReviewerID string       `json:"reviewer_id"`
	ReviewedID string       `json:"reviewed_id"`
	PropertyID string       `json:"property_id"`
	Rating     int          `json:"rating"`
	Comment    string       `json:"comment,omitempty"`
	CreatedAt  string       `json:"created_at"`
	Reviewer   *UserSummary `json:"reviewer,omitempty"`
}

func NewReviewResponse(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		ReviewerID: r.ReviewerID,
		ReviewedID: r.ReviewedID,
		PropertyID: r.PropertyID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		Reviewer:   NewUserSummary(r.Reviewer),
	}
}

func NewReviewResponses(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewResponse(r))
	}
	return out
}
