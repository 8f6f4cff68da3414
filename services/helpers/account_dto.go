package helpers

import (
	"time"

	"sublease-marketplace/internal/models"
)

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	Name        string `json:"name" binding:"required,max=255"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=32"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest only carries the fields a user may edit
type UpdateProfileRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=32"`
	Bio         *string `json:"bio" binding:"omitempty,max=2000"`
}

type UserResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email,omitempty"`
	PhoneNumber     string           `json:"phone_number,omitempty"`
	Bio             string           `json:"bio,omitempty"`
	ProfileImageURL string           `json:"profile_image_url,omitempty"`
	VerifiedStatus  string           `json:"verified_status"`
	Role            string           `json:"role,omitempty"`
	CreatedAt       string           `json:"created_at"`
	ReceivedReviews []ReviewResponse `json:"received_reviews,omitempty"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type ListingsResponse struct {
	ActiveListings []PropertyResponse `json:"active_listings"`
	PastListings   []PropertyResponse `json:"past_listings"`
}

// NewUserResponse builds the public view of a user; contact details are added for the account owner
func NewUserResponse(u models.User, private bool) UserResponse {
	resp := UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Bio:             u.Bio,
		ProfileImageURL: u.ProfileImageURL,
		VerifiedStatus:  u.VerifiedStatus,
		CreatedAt:       u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if private {
		resp.Email = u.Email
		resp.PhoneNumber = u.PhoneNumber
		resp.Role = u.Role
	}
	if len(u.ReceivedReviews) > 0 {
		resp.ReceivedReviews = NewReviewResponses(u.ReceivedReviews)
	}
	return resp
}

func NewAuthResponse(token string, expiresAt time.Time, u models.User) AuthResponse {
	return AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      NewUserResponse(u, true),
	}
}

func NewListingsResponse(active, past []models.Property) ListingsResponse {
	return ListingsResponse{
		ActiveListings: NewPropertyResponses(active),
		PastListings:   NewPropertyResponses(past),
	}
}
