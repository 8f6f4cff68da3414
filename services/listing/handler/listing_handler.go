package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"sublease-marketplace/internal/biddingerrors"
	listing "sublease-marketplace/internal/listingService"
	"sublease-marketplace/internal/models"
	"sublease-marketplace/services/helpers"
	"sublease-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=listing_handler.go -destination=mock_listing_handler.go -package=handler

const imagesField = "images"

type ListingServiceInterface interface {
	CreateProperty(ctx context.Context, ownerID string, in listing.CreatePropertyInput, uploads []listing.Upload) (models.Property, error)
	ListProperties(ctx context.Context, f listing.PropertyFilter) (listing.Page, error)
	Search(ctx context.Context, f listing.SearchFilter) ([]models.Property, error)
	GetProperty(ctx context.Context, id string) (models.Property, error)
	UpdateProperty(ctx context.Context, id, callerID string, in listing.UpdatePropertyInput) (models.Property, error)
	DeleteProperty(ctx context.Context, id, callerID string) error
	AddImages(ctx context.Context, propertyID, callerID string, uploads []listing.Upload) ([]models.PropertyImage, error)
	ReorderImages(ctx context.Context, propertyID, callerID string, orders []listing.ImageOrder) ([]models.PropertyImage, error)
	DeleteImage(ctx context.Context, propertyID, imageID, callerID string) error
}

type ListingHandler struct {
	service ListingServiceInterface
}

func NewListingHandler(service ListingServiceInterface) *ListingHandler {
	return &ListingHandler{service: service}
}

// CreatePropertyHandler handles POST /api/properties (multipart with optional "images", or JSON)
func (h *ListingHandler) CreatePropertyHandler(c *gin.Context) {
	callerID := helpers.CallerID(c)

	var req helpers.CreatePropertyRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.HandleBindError(c, "CreatePropertyHandler", err)
		return
	}

	minPrice, err := decimal.NewFromString(req.MinPrice.String())
	if err != nil {
		helpers.HandleBindError(c, "CreatePropertyHandler", fmt.Errorf("min_price: %w", err))
		return
	}

	headers, err := helpers.FormFiles(c, imagesField)
	if err != nil {
		helpers.HandleBindError(c, "CreatePropertyHandler", err)
		return
	}
	uploads, closeUploads, err := openUploads(headers)
	if err != nil {
		helpers.HandleBindError(c, "CreatePropertyHandler", err)
		return
	}
	defer closeUploads()

	property, err := h.service.CreateProperty(c.Request.Context(), callerID, listing.CreatePropertyInput{
		Title:          req.Title,
		Description:    req.Description,
		Address:        req.Address,
		PlaceID:        req.PlaceID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		Type:           req.Type,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AuctionEndDate: req.AuctionEndDate,
		MinPrice:       minPrice,
	}, uploads)
	if err != nil {
		helpers.HandleServiceError(c, "CreatePropertyHandler", err, map[string]any{"user_id": callerID, "images": len(uploads)})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewPropertyResponse(property), "property created successfully")
	helpers.LogSuccess("CreatePropertyHandler", "property created successfully", map[string]any{
		"property_id": property.ID,
		"user_id":     callerID,
		"images":      len(property.Images),
	})
}

// ListPropertiesHandler handles GET /api/properties
func (h *ListingHandler) ListPropertiesHandler(c *gin.Context) {
	var q helpers.ListPropertiesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		helpers.HandleBindError(c, "ListPropertiesHandler", err)
		return
	}

	minPrice, maxPrice, err := priceRange(q.MinPrice, q.MaxPrice)
	if err != nil {
		helpers.HandleServiceError(c, "ListPropertiesHandler", err, nil)
		return
	}

	page, err := h.service.ListProperties(c.Request.Context(), listing.PropertyFilter{
		Page:      q.Page,
		Limit:     q.Limit,
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		RadiusKm:  q.Radius,
	})
	if err != nil {
		helpers.HandleServiceError(c, "ListPropertiesHandler", err, map[string]any{"page": q.Page})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.PropertyPageResponse{
		Properties: helpers.NewPropertyResponses(page.Properties),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, "properties retrieved successfully")
	helpers.LogSuccess("ListPropertiesHandler", "properties retrieved successfully", map[string]any{
		"page":  page.Page,
		"count": len(page.Properties),
		"total": page.Total,
	})
}

// SearchHandler handles GET /api/search
func (h *ListingHandler) SearchHandler(c *gin.Context) {
	var q helpers.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		helpers.HandleBindError(c, "SearchHandler", err)
		return
	}

	minPrice, maxPrice, err := priceRange(q.MinPrice, q.MaxPrice)
	if err != nil {
		helpers.HandleServiceError(c, "SearchHandler", err, nil)
		return
	}

	props, err := h.service.Search(c.Request.Context(), listing.SearchFilter{
		Latitude:     q.Latitude,
		Longitude:    q.Longitude,
		RadiusMiles:  q.Radius,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		MinBedrooms:  q.Bedrooms,
		MinBathrooms: q.Bathrooms,
		Type:         q.Type,
		StartDate:    q.StartDate,
		EndDate:      q.EndDate,
	})
	if err != nil {
		helpers.HandleServiceError(c, "SearchHandler", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.SearchResponse{
		Properties: helpers.NewPropertyResponses(props),
		Total:      len(props),
	}, "search completed successfully")
	helpers.LogSuccess("SearchHandler", "search completed successfully", map[string]any{"count": len(props)})
}

// GetPropertyHandler handles GET /api/properties/:id
func (h *ListingHandler) GetPropertyHandler(c *gin.Context) {
	propertyID := c.Param("id")

	property, err := h.service.GetProperty(c.Request.Context(), propertyID)
	if err != nil {
		helpers.HandleServiceError(c, "GetPropertyHandler", err, map[string]any{"property_id": propertyID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewPropertyResponse(property), "property retrieved successfully")
}

// UpdatePropertyHandler handles PUT /api/properties/:id
func (h *ListingHandler) UpdatePropertyHandler(c *gin.Context) {
	propertyID := c.Param("id")
	callerID := helpers.CallerID(c)

	var req helpers.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdatePropertyHandler", err)
		return
	}

	property, err := h.service.UpdateProperty(c.Request.Context(), propertyID, callerID, listing.UpdatePropertyInput{
		Title:          req.Title,
		Description:    req.Description,
		Address:        req.Address,
		PlaceID:        req.PlaceID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		Type:           req.Type,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AuctionEndDate: req.AuctionEndDate,
		MinPrice:       req.MinPrice,
	})
	if err != nil {
		helpers.HandleServiceError(c, "UpdatePropertyHandler", err, map[string]any{"property_id": propertyID, "user_id": callerID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewPropertyResponse(property), "property updated successfully")
	helpers.LogSuccess("UpdatePropertyHandler", "property updated successfully", map[string]any{
		"property_id": propertyID,
		"user_id":     callerID,
	})
}

// DeletePropertyHandler handles DELETE /api/properties/:id
func (h *ListingHandler) DeletePropertyHandler(c *gin.Context) {
	propertyID := c.Param("id")
	callerID := helpers.CallerID(c)

	if err := h.service.DeleteProperty(c.Request.Context(), propertyID, callerID); err != nil {
		helpers.HandleServiceError(c, "DeletePropertyHandler", err, map[string]any{"property_id": propertyID, "user_id": callerID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "property deleted successfully")
	helpers.LogSuccess("DeletePropertyHandler", "property deleted successfully", map[string]any{
		"property_id": propertyID,
		"user_id":     callerID,
	})
}

// AddImagesHandler handles POST /api/properties/:id/images
func (h *ListingHandler) AddImagesHandler(c *gin.Context) {
	propertyID := c.Param("id")
	callerID := helpers.CallerID(c)

	headers, err := helpers.FormFiles(c, imagesField)
	if err != nil {
		helpers.HandleBindError(c, "AddImagesHandler", err)
		return
	}
	uploads, closeUploads, err := openUploads(headers)
	if err != nil {
		helpers.HandleBindError(c, "AddImagesHandler", err)
		return
	}
	defer closeUploads()

	images, err := h.service.AddImages(c.Request.Context(), propertyID, callerID, uploads)
	if err != nil {
		helpers.HandleServiceError(c, "AddImagesHandler", err, map[string]any{"property_id": propertyID, "images": len(uploads)})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewImageResponses(images), "images uploaded successfully")
	helpers.LogSuccess("AddImagesHandler", "images uploaded successfully", map[string]any{
		"property_id": propertyID,
		"uploaded":    len(uploads),
	})
}

// ReorderImagesHandler handles PUT /api/properties/:id/images/reorder
func (h *ListingHandler) ReorderImagesHandler(c *gin.Context) {
	propertyID := c.Param("id")
	callerID := helpers.CallerID(c)

	var req helpers.ReorderImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ReorderImagesHandler", err)
		return
	}

	orders := make([]listing.ImageOrder, 0, len(req.ImageOrders))
	for _, o := range req.ImageOrders {
		orders = append(orders, listing.ImageOrder{ID: o.ID, OrderIndex: *o.OrderIndex})
	}

	images, err := h.service.ReorderImages(c.Request.Context(), propertyID, callerID, orders)
	if err != nil {
		helpers.HandleServiceError(c, "ReorderImagesHandler", err, map[string]any{"property_id": propertyID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewImageResponses(images), "images reordered successfully")
}

// DeleteImageHandler handles DELETE /api/properties/:id/images/:imageId
func (h *ListingHandler) DeleteImageHandler(c *gin.Context) {
	propertyID, imageID := c.Param("id"), c.Param("imageId")
	callerID := helpers.CallerID(c)

	if err := h.service.DeleteImage(c.Request.Context(), propertyID, imageID, callerID); err != nil {
		helpers.HandleServiceError(c, "DeleteImageHandler", err, map[string]any{"property_id": propertyID, "image_id": imageID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "image deleted successfully")
	helpers.LogSuccess("DeleteImageHandler", "image deleted successfully", map[string]any{
		"property_id": propertyID,
		"image_id":    imageID,
	})
}

// openUploads opens every file; the returned func closes them
func openUploads(headers []*multipart.FileHeader) ([]listing.Upload, func(), error) {
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	uploads := make([]listing.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		files = append(files, f)
		uploads = append(uploads, listing.Upload{Filename: fh.Filename, Body: f})
	}
	return uploads, closeAll, nil
}

func priceRange(minRaw, maxRaw string) (*decimal.Decimal, *decimal.Decimal, error) {
	minPrice, err := parsePrice("min_price", minRaw)
	if err != nil {
		return nil, nil, err
	}
	maxPrice, err := parsePrice("max_price", maxRaw)
	if err != nil {
		return nil, nil, err
	}
	return minPrice, maxPrice, nil
}

func parsePrice(field, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("%w - %s must be a non-negative number", biddingerrors.ErrValidation, field)
	}
	return &d, nil
}
