package helpers

import (
	"encoding/json"
	"time"

	"sublease-marketplace/internal/models"

	"github.com/shopspring/decimal"
)

// CreatePropertyRequest is bound from multipart/form-data (with "images" files) or JSON.
// min_price is a json.Number so both a form string and a JSON number bind.
type CreatePropertyRequest struct {
	Title          string      `form:"title" json:"title" binding:"required,max=255"`
	Description    string      `form:"description" json:"description"`
	Address        string      `form:"address" json:"address" binding:"required,max=512"`
	PlaceID        string      `form:"place_id" json:"place_id"`
	Latitude       *float64    `form:"latitude" json:"latitude" binding:"omitempty,latitude"`
	Longitude      *float64    `form:"longitude" json:"longitude" binding:"omitempty,longitude"`
	Bedrooms       int         `form:"bedrooms" json:"bedrooms" binding:"gte=0"`
	Bathrooms      int         `form:"bathrooms" json:"bathrooms" binding:"gte=0"`
	Type           string      `form:"type" json:"type" binding:"max=64"`
	StartDate      string      `form:"start_date" json:"start_date"`
	EndDate        string      `form:"end_date" json:"end_date"`
	AuctionEndDate string      `form:"auction_end_date" json:"auction_end_date"`
	MinPrice       json.Number `form:"min_price" json:"min_price" binding:"required"`
}

// UpdatePropertyRequest lists the mutable listing fields. Status is not among them.
type UpdatePropertyRequest struct {
	Title          *string          `json:"title" binding:"omitempty,max=255"`
	Description    *string          `json:"description"`
	Address        *string          `json:"address" binding:"omitempty,max=512"`
	PlaceID        *string          `json:"place_id"`
	Latitude       *float64         `json:"latitude" binding:"omitempty,latitude"`
	Longitude      *float64         `json:"longitude" binding:"omitempty,longitude"`
	Bedrooms       *int             `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms      *int             `json:"bathrooms" binding:"omitempty,gte=0"`
	Type           *string          `json:"type" binding:"omitempty,max=64"`
	StartDate      *string          `json:"start_date"`
	EndDate        *string          `json:"end_date"`
	AuctionEndDate *string          `json:"auction_end_date"`
	MinPrice       *decimal.Decimal `json:"min_price"`
}

type ListPropertiesQuery struct {
	Page      int      `form:"page" binding:"omitempty,gte=1"`
	Limit     int      `form:"limit" binding:"omitempty,gte=1,lte=100"`
	MinPrice  string   `form:"min_price"`
	MaxPrice  string   `form:"max_price"`
	StartDate string   `form:"start_date"`
	EndDate   string   `form:"end_date"`
	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
	Radius    float64  `form:"radius" binding:"omitempty,gt=0"`
}

type SearchQuery struct {
	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
	Radius    float64  `form:"radius" binding:"omitempty,gt=0"`
	MinPrice  string   `form:"min_price"`
	MaxPrice  string   `form:"max_price"`
	Bedrooms  int      `form:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms int      `form:"bathrooms" binding:"omitempty,gte=0"`
	Type      string   `form:"type"`
	StartDate string   `form:"start_date"`
	EndDate   string   `form:"end_date"`
}

type ImageOrderRequest struct {
	ID         string `json:"id" binding:"required"`
	OrderIndex *int   `json:"order_index" binding:"required,gte=0"`
}

type ReorderImagesRequest struct {
	ImageOrders []ImageOrderRequest `json:"image_orders" binding:"required,min=1,dive"`
}

type ImageResponse struct {
	ID         string `json:"id"`
	ImageURL   string `json:"image_url"`
	OrderIndex int    `json:"order_index"`
}

type PropertyResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Address        string          `json:"address"`
	PlaceID        string          `json:"place_id,omitempty"`
	Latitude       *float64        `json:"latitude"`
	Longitude      *float64        `json:"longitude"`
	Bedrooms       int             `json:"bedrooms"`
	Bathrooms      int             `json:"bathrooms"`
	Type           string          `json:"type,omitempty"`
	StartDate      *string         `json:"start_date"`
	EndDate        *string         `json:"end_date"`
	MinPrice       decimal.Decimal `json:"min_price"`
	Status         string          `json:"status"`
	AuctionEndDate *string         `json:"auction_end_date"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
	Owner          *UserSummary    `json:"owner,omitempty"`
	Images         []ImageResponse `json:"images"`
	Bids           []BidResponse   `json:"bids,omitempty"`
}

type PropertyPageResponse struct {
	Properties []PropertyResponse `json:"properties"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type SearchResponse struct {
	Properties []PropertyResponse `json:"properties"`
	Total      int                `json:"total"`
}

func NewImageResponses(images []models.PropertyImage) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, ImageResponse{ID: img.ID, ImageURL: img.ImageURL, OrderIndex: img.OrderIndex})
	}
	return out
}

func NewPropertyResponse(p models.Property) PropertyResponse {
	resp := PropertyResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		Title:          p.Title,
		Description:    p.Description,
		Address:        p.Address,
		PlaceID:        p.PlaceID,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		Bedrooms:       p.Bedrooms,
		Bathrooms:      p.Bathrooms,
		Type:           p.Type,
		StartDate:      formatOptionalTime(p.StartDate),
		EndDate:        formatOptionalTime(p.EndDate),
		MinPrice:       p.MinPrice,
		Status:         string(p.Status),
		AuctionEndDate: formatOptionalTime(p.AuctionEndAt),
		CreatedAt:      p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.UTC().Format(time.RFC3339),
		Owner:          NewUserSummary(p.Owner),
		Images:         NewImageResponses(p.Images),
	}
	if len(p.Bids) > 0 {
		resp.Bids = NewBidResponses(p.Bids)
	}
	return resp
}

func NewPropertyResponses(props []models.Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(props))
	for _, p := range props {
		out = append(out, NewPropertyResponse(p))
	}
	return out
}
