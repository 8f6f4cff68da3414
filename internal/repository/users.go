package repository

import (
	"context"
	"fmt"
	"strings"

	"sublease-marketplace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStore defines account persistence
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetProfile(ctx context.Context, id string) (models.User, error)
	UpdateUser(ctx context.Context, id string, updates map[string]any) error
}

// GormUserRepo implements UserStore with GORM
type GormUserRepo struct {
	db *gorm.DB
}

// NewGormUserRepo creates a GORM-backed user repository
func NewGormUserRepo(db *gorm.DB) *GormUserRepo {
	return &GormUserRepo{db: db}
}

var _ UserStore = (*GormUserRepo)(nil)

// CreateUser inserts a new account
func (r *GormUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}
	return nil
}

// GetUserByID returns an account by id
func (r *GormUserRepo) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return models.User{}, wrapLookup(err, "get user %s", id)
	}
	return u, nil
}

// GetUserByEmail returns an account by its (case-insensitive) email
func (r *GormUserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return models.User{}, wrapLookup(err, "get user by email")
	}
	return u, nil
}

// GetProfile returns an account with the reviews it has received and each reviewer's summary
func (r *GormUserRepo) GetProfile(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Preload("ReceivedReviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("ReceivedReviews.Reviewer", userSummary).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return models.User{}, wrapLookup(err, "get profile %s", id)
	}
	return u, nil
}

// UpdateUser applies an already validated set of column updates
func (r *GormUserRepo) UpdateUser(ctx context.Context, id string, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrapLookup(gorm.ErrRecordNotFound, "update user %s", id)
	}
	return nil
}
