package handler

import (
	"context"
	"net/http"

	"sublease-marketplace/internal/models"
	"sublease-marketplace/services/helpers"
	"sublease-marketplace/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=review_handler.go -destination=mock_review_handler.go -package=handler

type ReviewServiceInterface interface {
	ListForProperty(ctx context.Context, propertyID string) ([]models.Review, error)
	CreateReview(ctx context.Context, propertyID, reviewerID string, rating int, comment string) (models.Review, error)
}

type ReviewHandler struct {
	service ReviewServiceInterface
}

func NewReviewHandler(service ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ListReviewsHandler handles GET /api/properties/:id/reviews and GET /api/reviews/:id
func (h *ReviewHandler) ListReviewsHandler(c *gin.Context) {
	propertyID := c.Param("id")

	reviews, err := h.service.ListForProperty(c.Request.Context(), propertyID)
	if err != nil {
		helpers.HandleServiceError(c, "ListReviewsHandler", err, map[string]any{"property_id": propertyID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewReviewResponses(reviews), "reviews retrieved successfully")
}

// CreateReviewHandler handles POST /api/properties/:id/reviews and POST /api/reviews/:id
func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	propertyID := c.Param("id")
	callerID := helpers.CallerID(c)

	var req helpers.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateReviewHandler", err)
		return
	}

	review, err := h.service.CreateReview(c.Request.Context(), propertyID, callerID, req.Rating, req.Comment)
	if err != nil {
		helpers.HandleServiceError(c, "CreateReviewHandler", err, map[string]any{"property_id": propertyID, "user_id": callerID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewReviewResponse(review), "review created successfully")
	helpers.LogSuccess("CreateReviewHandler", "review created successfully", map[string]any{
		"review_id":   review.ID,
		"property_id": propertyID,
		"rating":      review.Rating,
	})
}
