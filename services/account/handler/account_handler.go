package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	account "sublease-marketplace/internal/accountService"
	"sublease-marketplace/internal/models"
	"sublease-marketplace/services/helpers"
	"sublease-marketplace/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=account_handler.go -destination=mock_account_handler.go -package=handler

const profileImageField = "profile_image"

type AccountServiceInterface interface {
	Register(ctx context.Context, in account.RegisterInput) (account.Session, error)
	Login(ctx context.Context, email, password string) (account.Session, error)
	GetProfile(ctx context.Context, userID string) (models.User, error)
	UpdateProfile(ctx context.Context, userID, callerID string, in account.UpdateProfileInput) (models.User, error)
	SetProfileImage(ctx context.Context, userID, callerID string, upload io.Reader) (models.User, error)
	ListUserProperties(ctx context.Context, userID string) (account.Listings, error)
}

type AccountHandler struct {
	service AccountServiceInterface
}

func NewAccountHandler(service AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

// RegisterHandler handles POST /api/auth/register
func (h *AccountHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	session, err := h.service.Register(c.Request.Context(), account.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		helpers.HandleServiceError(c, "RegisterHandler", err, map[string]any{"email": req.Email})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewAuthResponse(session.Token, session.ExpiresAt, session.User), "user registered successfully")
	helpers.LogSuccess("RegisterHandler", "user registered successfully", map[string]any{"user_id": session.User.ID})
}

// LoginHandler handles POST /api/auth/login
func (h *AccountHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		helpers.HandleServiceError(c, "LoginHandler", err, map[string]any{"email": req.Email})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuthResponse(session.Token, session.ExpiresAt, session.User), "login successful")
	helpers.LogSuccess("LoginHandler", "login successful", map[string]any{"user_id": session.User.ID})
}

// GetProfileHandler handles GET /api/users/:id. Contact details are only shown to the user themselves.
func (h *AccountHandler) GetProfileHandler(c *gin.Context) {
	userID := c.Param("id")
	callerID := helpers.CallerID(c)

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		helpers.HandleServiceError(c, "GetProfileHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewUserResponse(user, callerID == user.ID), "user retrieved successfully")
}

// UpdateProfileHandler handles PUT /api/users/:id
func (h *AccountHandler) UpdateProfileHandler(c *gin.Context) {
	userID := c.Param("id")
	callerID := helpers.CallerID(c)

	var req helpers.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateProfileHandler", err)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, callerID, account.UpdateProfileInput{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Bio:         req.Bio,
	})
	if err != nil {
		helpers.HandleServiceError(c, "UpdateProfileHandler", err, map[string]any{"user_id": userID, "caller_id": callerID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewUserResponse(user, true), "profile updated successfully")
	helpers.LogSuccess("UpdateProfileHandler", "profile updated successfully", map[string]any{"user_id": userID})
}

// UploadProfileImageHandler handles POST /api/users/:id/profile-image
func (h *AccountHandler) UploadProfileImageHandler(c *gin.Context) {
	userID := c.Param("id")
	callerID := helpers.CallerID(c)

	fh, err := c.FormFile(profileImageField)
	if err != nil {
		helpers.HandleBindError(c, "UploadProfileImageHandler", fmt.Errorf("%s: %w", profileImageField, err))
		return
	}
	file, err := fh.Open()
	if err != nil {
		helpers.HandleBindError(c, "UploadProfileImageHandler", err)
		return
	}
	defer file.Close()

	user, err := h.service.SetProfileImage(c.Request.Context(), userID, callerID, file)
	if err != nil {
		helpers.HandleServiceError(c, "UploadProfileImageHandler", err, map[string]any{"user_id": userID, "size": fh.Size})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewUserResponse(user, true), "profile image updated successfully")
	helpers.LogSuccess("UploadProfileImageHandler", "profile image updated successfully", map[string]any{
		"user_id": userID,
		"url":     user.ProfileImageURL,
	})
}

// ListUserPropertiesHandler handles GET /api/users/:id/properties
func (h *AccountHandler) ListUserPropertiesHandler(c *gin.Context) {
	userID := c.Param("id")

	listings, err := h.service.ListUserProperties(c.Request.Context(), userID)
	if err != nil {
		helpers.HandleServiceError(c, "ListUserPropertiesHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingsResponse(listings.Active, listings.Past), "properties retrieved successfully")
}
