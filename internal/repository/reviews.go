package repository

import (
	"context"
	"fmt"

	"sublease-marketplace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewStore defines review persistence
type ReviewStore interface {
	CreateReview(ctx context.Context, review *models.Review) error
	ListReviewsForProperty(ctx context.Context, propertyID string) ([]models.Review, error)
}

// GormReviewRepo implements ReviewStore with GORM
type GormReviewRepo struct {
	db *gorm.DB
}

// NewGormReviewRepo creates a GORM-backed review repository
func NewGormReviewRepo(db *gorm.DB) *GormReviewRepo {
	return &GormReviewRepo{db: db}
}

var _ ReviewStore = (*GormReviewRepo)(nil)

func (r *GormReviewRepo) CreateReview(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error; err != nil {
		return fmt.Errorf("create review for property %s: %w", review.PropertyID, err)
	}
	return nil
}

// ListReviewsForProperty returns a property's reviews, newest first, with reviewer summaries
func (r *GormReviewRepo) ListReviewsForProperty(ctx context.Context, propertyID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Reviewer", userSummary).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews for property %s: %w", propertyID, err)
	}
	return reviews, nil
}
