package review

import (
	"context"
	"fmt"
	"strings"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/models"
	"sublease-marketplace/internal/repository"
	"sublease-marketplace/utils"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ReviewService manages reviews of property owners
type ReviewService struct {
	reviews    repository.ReviewStore
	properties repository.PropertyStore
}

// NewReviewService creates a new ReviewService instance
func NewReviewService(reviews repository.ReviewStore, properties repository.PropertyStore) *ReviewService {
	return &ReviewService{reviews: reviews, properties: properties}
}

// ListForProperty returns a property's reviews, newest first
func (s *ReviewService) ListForProperty(ctx context.Context, propertyID string) ([]models.Review, error) {
	if _, err := s.properties.GetProperty(ctx, propertyID); err != nil {
		return nil, fmt.Errorf("service: failed to get property %s: %w", propertyID, err)
	}

	reviews, err := s.reviews.ListReviewsForProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list reviews for %s: %w", propertyID, err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// CreateReview records the caller's review of a property's owner
func (s *ReviewService) CreateReview(ctx context.Context, propertyID, reviewerID string, rating int, comment string) (models.Review, error) {
	if reviewerID == "" {
		return models.Review{}, fmt.Errorf("service: %w", biddingerrors.ErrUnauthenticated)
	}
	if rating < MinRating || rating > MaxRating {
		return models.Review{}, fmt.Errorf("service: %w - rating must be between %d and %d", biddingerrors.ErrValidation, MinRating, MaxRating)
	}

	property, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return models.Review{}, fmt.Errorf("service: failed to get property %s: %w", propertyID, err)
	}
	if property.UserID == reviewerID {
		return models.Review{}, fmt.Errorf("service: %w - owners cannot review their own listing", biddingerrors.ErrForbidden)
	}

	review := models.Review{
		ID:         utils.GenerateID(),
		ReviewerID: reviewerID,
		ReviewedID: property.UserID,
		PropertyID: propertyID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}
	if err := s.reviews.CreateReview(ctx, &review); err != nil {
		return models.Review{}, fmt.Errorf("service: failed to create review: %w", err)
	}
	return review, nil
}
