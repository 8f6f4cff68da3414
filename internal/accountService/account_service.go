package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"sublease-marketplace/internal/auth"
	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/models"
	"sublease-marketplace/internal/repository"
	"sublease-marketplace/internal/storage"
	"sublease-marketplace/utils"

	"github.com/go-playground/validator/v10"
)

// TokenIssuer signs bearer tokens for authenticated users
type TokenIssuer interface {
	Issue(userID, email, role string) (string, time.Time, error)
}

// AccountService handles registration, login and profiles
type AccountService struct {
	users        repository.UserStore
	properties   repository.PropertyStore
	tokens       TokenIssuer
	images       storage.ImageStore
	maxImageSize int64
	now          func() time.Time
}

// Option configures an AccountService
type Option func(*AccountService)

// WithClock overrides the time source used for storage keys
func WithClock(now func() time.Time) Option {
	return func(s *AccountService) { s.now = now }
}

// NewAccountService creates a new AccountService instance
func NewAccountService(users repository.UserStore, properties repository.PropertyStore, tokens TokenIssuer,
	images storage.ImageStore, maxProfileImageBytes int64, opts ...Option) *AccountService {
	s := &AccountService{
		users:        users,
		properties:   properties,
		tokens:       tokens,
		images:       images,
		maxImageSize: maxProfileImageBytes,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput carries a new account's details
type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	PhoneNumber string
}

// Session is an authenticated user and their bearer token
type Session struct {
	User      models.User
	Token     string
	ExpiresAt time.Time
}

// Register creates an account and signs the user in
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return Session{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Session{}, fmt.Errorf("service: %w - name is required", biddingerrors.ErrValidation)
	}

	_, err = s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return Session{}, fmt.Errorf("service: %w", biddingerrors.ErrEmailTaken)
	}
	if !errors.Is(err, biddingerrors.ErrNotFound) {
		return Session{}, fmt.Errorf("service: failed to look up email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("service: %w", err)
	}

	user := models.User{
		ID:             utils.GenerateID(),
		Name:           name,
		Email:          email,
		PasswordHash:   hash,
		PhoneNumber:    strings.TrimSpace(in.PhoneNumber),
		VerifiedStatus: "unverified",
		Role:           "user",
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return Session{}, fmt.Errorf("service: failed to create user: %w", err)
	}

	return s.session(user)
}

// Login checks credentials and returns a fresh token.
// Unknown email and wrong password are reported the same way.
func (s *AccountService) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, biddingerrors.ErrNotFound) {
		return Session{}, fmt.Errorf("service: %w", biddingerrors.ErrInvalidCredential)
	}
	if err != nil {
		return Session{}, fmt.Errorf("service: failed to look up user: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, fmt.Errorf("service: %w", biddingerrors.ErrInvalidCredential)
	}

	return s.session(user)
}

func (s *AccountService) session(user models.User) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return Session{}, fmt.Errorf("service: failed to issue token: %w", err)
	}
	return Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// GetProfile returns a public profile with the reviews the user received
func (s *AccountService) GetProfile(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to get profile %s: %w", userID, err)
	}
	return user, nil
}

// UpdateProfileInput lists the profile fields a user may change. Nil means unchanged.
type UpdateProfileInput struct {
	Name        *string
	PhoneNumber *string
	Bio         *string
}

// UpdateProfile changes the caller's own profile
func (s *AccountService) UpdateProfile(ctx context.Context, userID, callerID string, in UpdateProfileInput) (models.User, error) {
	if userID != callerID {
		return models.User{}, fmt.Errorf("service: %w - profiles can only be edited by their owner", biddingerrors.ErrForbidden)
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return models.User{}, fmt.Errorf("service: %w - name cannot be empty", biddingerrors.ErrValidation)
		}
		updates["name"] = name
	}
	if in.PhoneNumber != nil {
		updates["phone_number"] = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if len(updates) == 0 {
		return models.User{}, fmt.Errorf("service: %w - no fields to update", biddingerrors.ErrValidation)
	}

	if err := s.users.UpdateUser(ctx, userID, updates); err != nil {
		return models.User{}, fmt.Errorf("service: failed to update user %s: %w", userID, err)
	}
	return s.GetProfile(ctx, userID)
}

// SetProfileImage stores a new profile picture for the caller and returns the updated user
func (s *AccountService) SetProfileImage(ctx context.Context, userID, callerID string, upload io.Reader) (models.User, error) {
	if userID != callerID {
		return models.User{}, fmt.Errorf("service: %w - profiles can only be edited by their owner", biddingerrors.ErrForbidden)
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return models.User{}, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}

	img, err := storage.ReadImage(upload, s.maxImageSize)
	if err != nil {
		return models.User{}, fmt.Errorf("service: %w", err)
	}

	key := storage.ObjectKey("profiles", img.Extension, s.now())
	url, err := s.images.Save(ctx, key, img.ContentType, img.Reader(), img.Size())
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to store profile image: %w", err)
	}

	if err := s.users.UpdateUser(ctx, userID, map[string]any{"profile_image_url": url}); err != nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			utils.Warn("Failed to remove orphaned profile image", map[string]any{"key": key, "error": delErr.Error()})
		}
		return models.User{}, fmt.Errorf("service: failed to update user %s: %w", userID, err)
	}

	return s.users.GetUserByID(ctx, userID)
}

// Listings splits a user's properties into open auctions and everything else
type Listings struct {
	Active []models.Property
	Past   []models.Property
}

// ListUserProperties returns every property a user owns
func (s *AccountService) ListUserProperties(ctx context.Context, userID string) (Listings, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return Listings{}, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}

	props, err := s.properties.ListByOwner(ctx, userID)
	if err != nil {
		return Listings{}, fmt.Errorf("service: failed to list properties of %s: %w", userID, err)
	}

	out := Listings{Active: []models.Property{}, Past: []models.Property{}}
	for _, p := range props {
		if p.Status == models.PropertyActive {
			out.Active = append(out.Active, p)
		} else {
			out.Past = append(out.Past, p)
		}
	}
	return out, nil
}

var validate = validator.New()

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("service: %w - invalid email address", biddingerrors.ErrValidation)
	}
	return email, nil
}
