package listing

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/config"
	"sublease-marketplace/internal/models"
	"sublease-marketplace/internal/repository"
	"sublease-marketplace/internal/storage"
	"sublease-marketplace/utils"

	"github.com/shopspring/decimal"
)

const (
	defaultPageSize    = 10
	maxPageSize        = 100
	defaultRadiusMiles = 10
)

// Upload is one file from a multipart request
type Upload struct {
	Filename string
	Body     io.Reader
}

// ListingService manages property listings and their images
type ListingService struct {
	properties    repository.PropertyStore
	images        storage.ImageStore
	maxImageBytes int64
	maxImages     int
	now           func() time.Time
}

// Option configures a ListingService
type Option func(*ListingService)

// WithClock overrides the time source used for auction expiry and storage keys
func WithClock(now func() time.Time) Option {
	return func(s *ListingService) { s.now = now }
}

// NewListingService creates a new ListingService instance
func NewListingService(properties repository.PropertyStore, images storage.ImageStore, limits config.UploadConfig, opts ...Option) *ListingService {
	s := &ListingService{
		properties:    properties,
		images:        images,
		maxImageBytes: limits.MaxPropertyImageBytes,
		maxImages:     limits.MaxPropertyImages,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePropertyInput carries a new listing. Dates accept RFC3339 or YYYY-MM-DD.
type CreatePropertyInput struct {
	Title          string
	Description    string
	Address        string
	PlaceID        string
	Latitude       *float64
	Longitude      *float64
	Bedrooms       int
	Bathrooms      int
	Type           string
	StartDate      string
	EndDate        string
	AuctionEndDate string
	MinPrice       decimal.Decimal
}

// CreateProperty validates and stores a listing owned by ownerID, with optional images
func (s *ListingService) CreateProperty(ctx context.Context, ownerID string, in CreatePropertyInput, uploads []Upload) (models.Property, error) {
	if ownerID == "" {
		return models.Property{}, fmt.Errorf("service: %w", biddingerrors.ErrUnauthenticated)
	}

	p := models.Property{
		ID:          utils.GenerateID(),
		UserID:      ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Address:     strings.TrimSpace(in.Address),
		PlaceID:     in.PlaceID,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Type:        in.Type,
		MinPrice:    in.MinPrice,
		Status:      models.PropertyActive,
	}

	var err error
	if p.StartDate, err = parseOptionalDate("start_date", in.StartDate); err != nil {
		return models.Property{}, err
	}
	if p.EndDate, err = parseOptionalDate("end_date", in.EndDate); err != nil {
		return models.Property{}, err
	}
	if p.AuctionEndAt, err = parseOptionalDate("auction_end_date", in.AuctionEndDate); err != nil {
		return models.Property{}, err
	}
	if err := validateProperty(p); err != nil {
		return models.Property{}, err
	}

	images, err := s.readImages(uploads, 0)
	if err != nil {
		return models.Property{}, err
	}
	stored, err := s.storeImages(ctx, p.ID, images, 0)
	if err != nil {
		return models.Property{}, err
	}
	p.Images = stored

	if err := s.properties.CreateProperty(ctx, &p); err != nil {
		s.discard(ctx, stored)
		return models.Property{}, fmt.Errorf("service: failed to create property: %w", err)
	}

	created, err := s.properties.GetProperty(ctx, p.ID)
	if err != nil {
		return models.Property{}, fmt.Errorf("service: failed to reload property %s: %w", p.ID, err)
	}
	return created, nil
}

// PropertyFilter selects a page of active listings. Radius is in kilometres.
type PropertyFilter struct {
	Page      int
	Limit     int
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	StartDate string
	EndDate   string
	Latitude  *float64
	Longitude *float64
	RadiusKm  float64
}

// Page is one page of listings
type Page struct {
	Properties []models.Property
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListProperties returns active listings, newest first, one page at a time
func (s *ListingService) ListProperties(ctx context.Context, f PropertyFilter) (Page, error) {
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	q := repository.PropertyQuery{
		ActiveOnly:   true,
		MinPrice:     f.MinPrice,
		MaxPrice:     f.MaxPrice,
		IncludeOwner: true,
	}
	var err error
	if q.StartOnOrAfter, err = parseOptionalDate("start_date", f.StartDate); err != nil {
		return Page{}, err
	}
	if q.EndOnOrBefore, err = parseOptionalDate("end_date", f.EndDate); err != nil {
		return Page{}, err
	}

	center, err := newPoint(f.Latitude, f.Longitude)
	if err != nil {
		return Page{}, err
	}

	// radius filtering happens in Go, so the page is cut after it
	if center != nil && f.RadiusKm > 0 {
		box := boundingBox(*center, f.RadiusKm)
		q.Bounds = &box
		props, _, err := s.properties.ListProperties(ctx, q)
		if err != nil {
			return Page{}, fmt.Errorf("service: failed to list properties: %w", err)
		}
		matched := withinRadius(props, *center, f.RadiusKm)
		return paginate(matched, int64(len(matched)), page, limit, true), nil
	}

	q.Limit, q.Offset = limit, (page-1)*limit
	props, total, err := s.properties.ListProperties(ctx, q)
	if err != nil {
		return Page{}, fmt.Errorf("service: failed to list properties: %w", err)
	}
	return paginate(props, total, page, limit, false), nil
}

func paginate(props []models.Property, total int64, page, limit int, slice bool) Page {
	if slice {
		start := (page - 1) * limit
		switch {
		case start >= len(props):
			props = nil
		case start+limit < len(props):
			props = props[start : start+limit]
		default:
			props = props[start:]
		}
	}
	if props == nil {
		props = []models.Property{}
	}
	return Page{
		Properties: props,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// SearchFilter narrows open auctions. Radius is in miles and defaults to 10 when a location is given.
type SearchFilter struct {
	Latitude     *float64
	Longitude    *float64
	RadiusMiles  float64
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MinBedrooms  int
	MinBathrooms int
	Type         string
	StartDate    string
	EndDate      string
}

// Search returns active, unexpired listings matching every given filter, newest first.
// With both dates, only leases covering the whole range match.
func (s *ListingService) Search(ctx context.Context, f SearchFilter) ([]models.Property, error) {
	now := s.now().UTC()
	q := repository.PropertyQuery{
		ActiveOnly:   true,
		OpenAt:       &now,
		MinPrice:     f.MinPrice,
		MaxPrice:     f.MaxPrice,
		MinBedrooms:  f.MinBedrooms,
		MinBathrooms: f.MinBathrooms,
		Type:         f.Type,
		IncludeOwner: true,
	}

	start, err := parseOptionalDate("start_date", f.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", f.EndDate)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil {
		if !end.After(*start) {
			return nil, fmt.Errorf("service: %w", biddingerrors.ErrEndDateBeforeStart)
		}
		q.LeaseCovers = &models.Interval{Start: *start, End: *end}
	}

	center, err := newPoint(f.Latitude, f.Longitude)
	if err != nil {
		return nil, err
	}
	radiusKm := 0.0
	if center != nil {
		miles := f.RadiusMiles
		if miles <= 0 {
			miles = defaultRadiusMiles
		}
		radiusKm = miles * kmPerMile
		box := boundingBox(*center, radiusKm)
		q.Bounds = &box
	}

	props, _, err := s.properties.ListProperties(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search properties: %w", err)
	}
	if center != nil {
		return withinRadius(props, *center, radiusKm), nil
	}
	if props == nil {
		props = []models.Property{}
	}
	return props, nil
}

// GetProperty returns a listing with images, owner and bids
func (s *ListingService) GetProperty(ctx context.Context, id string) (models.Property, error) {
	p, err := s.properties.GetPropertyDetails(ctx, id)
	if err != nil {
		return models.Property{}, fmt.Errorf("service: failed to get property %s: %w", id, err)
	}
	return p, nil
}

// UpdatePropertyInput lists the fields an owner may change. Nil means unchanged;
// an empty date string clears that date. Status is never changed here.
type UpdatePropertyInput struct {
	Title          *string
	Description    *string
	Address        *string
	PlaceID        *string
	Latitude       *float64
	Longitude      *float64
	Bedrooms       *int
	Bathrooms      *int
	Type           *string
	StartDate      *string
	EndDate        *string
	AuctionEndDate *string
	MinPrice       *decimal.Decimal
}

// UpdateProperty applies owner edits after validating the resulting listing
func (s *ListingService) UpdateProperty(ctx context.Context, id, callerID string, in UpdatePropertyInput) (models.Property, error) {
	p, err := s.loadOwned(ctx, id, callerID)
	if err != nil {
		return models.Property{}, err
	}

	updates := map[string]any{}
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
		updates["title"] = p.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
		updates["description"] = p.Description
	}
	if in.Address != nil {
		p.Address = strings.TrimSpace(*in.Address)
		updates["address"] = p.Address
	}
	if in.PlaceID != nil {
		p.PlaceID = *in.PlaceID
		updates["place_id"] = p.PlaceID
	}
	if in.Latitude != nil {
		p.Latitude = in.Latitude
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = in.Longitude
		updates["longitude"] = *in.Longitude
	}
	if in.Bedrooms != nil {
		p.Bedrooms = *in.Bedrooms
		updates["bedrooms"] = p.Bedrooms
	}
	if in.Bathrooms != nil {
		p.Bathrooms = *in.Bathrooms
		updates["bathrooms"] = p.Bathrooms
	}
	if in.Type != nil {
		p.Type = *in.Type
		updates["type"] = p.Type
	}
	if in.MinPrice != nil {
		p.MinPrice = *in.MinPrice
		updates["min_price"] = p.MinPrice
	}
	if in.StartDate != nil {
		if p.StartDate, err = parseOptionalDate("start_date", *in.StartDate); err != nil {
			return models.Property{}, err
		}
		updates["start_date"] = p.StartDate
	}
	if in.EndDate != nil {
		if p.EndDate, err = parseOptionalDate("end_date", *in.EndDate); err != nil {
			return models.Property{}, err
		}
		updates["end_date"] = p.EndDate
	}
	if in.AuctionEndDate != nil {
		if p.AuctionEndAt, err = parseOptionalDate("auction_end_date", *in.AuctionEndDate); err != nil {
			return models.Property{}, err
		}
		updates["auction_end_date"] = p.AuctionEndAt
	}

	if len(updates) == 0 {
		return models.Property{}, fmt.Errorf("service: %w - no fields to update", biddingerrors.ErrValidation)
	}
	if err := validateProperty(p); err != nil {
		return models.Property{}, err
	}

	if err := s.properties.UpdateProperty(ctx, id, updates); err != nil {
		return models.Property{}, fmt.Errorf("service: failed to update property %s: %w", id, err)
	}
	return s.GetProperty(ctx, id)
}

// DeleteProperty soft-deletes the caller's listing
func (s *ListingService) DeleteProperty(ctx context.Context, id, callerID string) error {
	if _, err := s.loadOwned(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.properties.DeleteProperty(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete property %s: %w", id, err)
	}
	return nil
}

// AddImages appends uploaded images after the listing's existing ones
func (s *ListingService) AddImages(ctx context.Context, propertyID, callerID string, uploads []Upload) ([]models.PropertyImage, error) {
	if _, err := s.loadOwned(ctx, propertyID, callerID); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("service: %w - no images provided", biddingerrors.ErrValidation)
	}

	existing, err := s.properties.ListImages(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list images of %s: %w", propertyID, err)
	}

	images, err := s.readImages(uploads, len(existing))
	if err != nil {
		return nil, err
	}

	next := 0
	for _, img := range existing {
		if img.OrderIndex >= next {
			next = img.OrderIndex + 1
		}
	}
	stored, err := s.storeImages(ctx, propertyID, images, next)
	if err != nil {
		return nil, err
	}
	if err := s.properties.AddImages(ctx, stored); err != nil {
		s.discard(ctx, stored)
		return nil, fmt.Errorf("service: failed to save images of %s: %w", propertyID, err)
	}

	return s.listImages(ctx, propertyID)
}

// ImageOrder assigns a display position to an image
type ImageOrder struct {
	ID         string
	OrderIndex int
}

// ReorderImages sets display positions; ids of other listings are ignored
func (s *ListingService) ReorderImages(ctx context.Context, propertyID, callerID string, orders []ImageOrder) ([]models.PropertyImage, error) {
	if _, err := s.loadOwned(ctx, propertyID, callerID); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("service: %w - image_orders is empty", biddingerrors.ErrValidation)
	}

	byID := make(map[string]int, len(orders))
	for _, o := range orders {
		if o.ID == "" || o.OrderIndex < 0 {
			return nil, fmt.Errorf("service: %w - each entry needs an id and a non-negative order_index", biddingerrors.ErrValidation)
		}
		byID[o.ID] = o.OrderIndex
	}

	if err := s.properties.ReorderImages(ctx, propertyID, byID); err != nil {
		return nil, fmt.Errorf("service: failed to reorder images of %s: %w", propertyID, err)
	}
	return s.listImages(ctx, propertyID)
}

// DeleteImage removes an image row and its stored object
func (s *ListingService) DeleteImage(ctx context.Context, propertyID, imageID, callerID string) error {
	if _, err := s.loadOwned(ctx, propertyID, callerID); err != nil {
		return err
	}

	img, err := s.properties.GetImage(ctx, propertyID, imageID)
	if err != nil {
		return fmt.Errorf("service: failed to get image %s: %w", imageID, err)
	}
	if err := s.properties.DeleteImage(ctx, propertyID, imageID); err != nil {
		return fmt.Errorf("service: failed to delete image %s: %w", imageID, err)
	}

	if img.StorageKey != "" {
		if err := s.images.Delete(ctx, img.StorageKey); err != nil {
			utils.Warn("Failed to remove stored image", map[string]any{"key": img.StorageKey, "error": err.Error()})
		}
	}
	return nil
}

func (s *ListingService) listImages(ctx context.Context, propertyID string) ([]models.PropertyImage, error) {
	images, err := s.properties.ListImages(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list images of %s: %w", propertyID, err)
	}
	if images == nil {
		images = []models.PropertyImage{}
	}
	return images, nil
}

// loadOwned returns the property when callerID owns it
func (s *ListingService) loadOwned(ctx context.Context, id, callerID string) (models.Property, error) {
	p, err := s.properties.GetProperty(ctx, id)
	if err != nil {
		return models.Property{}, fmt.Errorf("service: failed to get property %s: %w", id, err)
	}
	if p.UserID != callerID {
		return models.Property{}, fmt.Errorf("service: %w - property %s belongs to another user", biddingerrors.ErrForbidden, id)
	}
	return p, nil
}

func (s *ListingService) readImages(uploads []Upload, existing int) ([]storage.Image, error) {
	if existing+len(uploads) > s.maxImages {
		return nil, fmt.Errorf("service: %w - at most %d images per property", biddingerrors.ErrValidation, s.maxImages)
	}
	images := make([]storage.Image, 0, len(uploads))
	for _, u := range uploads {
		img, err := storage.ReadImage(u.Body, s.maxImageBytes)
		if err != nil {
			return nil, fmt.Errorf("service: %s: %w", u.Filename, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// storeImages saves every image or none
func (s *ListingService) storeImages(ctx context.Context, propertyID string, images []storage.Image, firstIndex int) ([]models.PropertyImage, error) {
	stored := make([]models.PropertyImage, 0, len(images))
	for i, img := range images {
		key := storage.ObjectKey("properties", img.Extension, s.now())
		url, err := s.images.Save(ctx, key, img.ContentType, img.Reader(), img.Size())
		if err != nil {
			s.discard(ctx, stored)
			return nil, fmt.Errorf("service: failed to store image: %w", err)
		}
		stored = append(stored, models.PropertyImage{
			ID:         utils.GenerateID(),
			PropertyID: propertyID,
			ImageURL:   url,
			StorageKey: key,
			OrderIndex: firstIndex + i,
		})
	}
	return stored, nil
}

func (s *ListingService) discard(ctx context.Context, images []models.PropertyImage) {
	for _, img := range images {
		if err := s.images.Delete(ctx, img.StorageKey); err != nil {
			utils.Warn("Failed to remove orphaned image", map[string]any{"key": img.StorageKey, "error": err.Error()})
		}
	}
}

func validateProperty(p models.Property) error {
	switch {
	case p.Title == "":
		return fmt.Errorf("service: %w - title is required", biddingerrors.ErrValidation)
	case p.Address == "":
		return fmt.Errorf("service: %w - address is required", biddingerrors.ErrValidation)
	case p.MinPrice.IsNegative():
		return fmt.Errorf("service: %w - min_price must not be negative", biddingerrors.ErrValidation)
	case p.MinPrice.GreaterThan(models.MaxAmount):
		return fmt.Errorf("service: %w - min_price must not exceed %s", biddingerrors.ErrValidation, models.MaxAmount.StringFixed(2))
	case p.Bedrooms < 0 || p.Bathrooms < 0:
		return fmt.Errorf("service: %w - bedrooms and bathrooms must not be negative", biddingerrors.ErrValidation)
	}
	if _, err := newPoint(p.Latitude, p.Longitude); err != nil {
		return err
	}
	if p.StartDate != nil && p.EndDate != nil && !p.EndDate.After(*p.StartDate) {
		return fmt.Errorf("service: %w", biddingerrors.ErrEndDateBeforeStart)
	}
	return nil
}

// parseOptionalDate returns nil for an empty value
func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := utils.ParseTime(value)
	if err != nil {
		return nil, fmt.Errorf("service: %w - %s %q", biddingerrors.ErrInvalidDateFormat, field, value)
	}
	return &t, nil
}
