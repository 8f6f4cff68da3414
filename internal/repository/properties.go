package repository

import (
	"context"
	"fmt"
	"time"

	"sublease-marketplace/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BoundingBox limits results to a latitude/longitude rectangle
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// PropertyQuery describes listing filters. Zero values mean "no filter".
type PropertyQuery struct {
	ActiveOnly     bool
	OpenAt         *time.Time // auction not ended at this instant
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	StartOnOrAfter *time.Time
	EndOnOrBefore  *time.Time
	LeaseCovers    *models.Interval
	MinBedrooms    int
	MinBathrooms   int
	Type           string
	Bounds         *BoundingBox
	Limit          int
	Offset         int
	IncludeOwner   bool
}

// PropertyStore defines listing and listing image persistence
type PropertyStore interface {
	CreateProperty(ctx context.Context, p *models.Property) error
	GetProperty(ctx context.Context, id string) (models.Property, error)
	GetPropertyDetails(ctx context.Context, id string) (models.Property, error)
	UpdateProperty(ctx context.Context, id string, updates map[string]any) error
	DeleteProperty(ctx context.Context, id string) error
	ListProperties(ctx context.Context, q PropertyQuery) ([]models.Property, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error)

	AddImages(ctx context.Context, images []models.PropertyImage) error
	ListImages(ctx context.Context, propertyID string) ([]models.PropertyImage, error)
	GetImage(ctx context.Context, propertyID, imageID string) (models.PropertyImage, error)
	ReorderImages(ctx context.Context, propertyID string, order map[string]int) error
	DeleteImage(ctx context.Context, propertyID, imageID string) error
}

// GormPropertyRepo implements PropertyStore with GORM
type GormPropertyRepo struct {
	db *gorm.DB
}

// NewGormPropertyRepo creates a GORM-backed property repository
func NewGormPropertyRepo(db *gorm.DB) *GormPropertyRepo {
	return &GormPropertyRepo{db: db}
}

var _ PropertyStore = (*GormPropertyRepo)(nil)

// CreateProperty inserts a property together with any images already attached to it
func (r *GormPropertyRepo) CreateProperty(ctx context.Context, p *models.Property) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return fmt.Errorf("create property: %w", err)
		}
		if len(p.Images) > 0 {
			if err := tx.Create(&p.Images).Error; err != nil {
				return fmt.Errorf("create property %s images: %w", p.ID, err)
			}
		}
		return nil
	})
}

// GetProperty returns a property with its images in display order
func (r *GormPropertyRepo) GetProperty(ctx context.Context, id string) (models.Property, error) {
	var p models.Property
	err := r.db.WithContext(ctx).
		Preload("Images", imagesInOrder).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return models.Property{}, wrapLookup(err, "get property %s", id)
	}
	return p, nil
}

// GetPropertyDetails returns a property with images, owner summary and bids with bidder summaries
func (r *GormPropertyRepo) GetPropertyDetails(ctx context.Context, id string) (models.Property, error) {
	var p models.Property
	err := r.db.WithContext(ctx).
		Preload("Images", imagesInOrder).
		Preload("Owner", userSummary).
		Preload("Bids", func(db *gorm.DB) *gorm.DB { return db.Order("amount DESC").Order("created_at DESC") }).
		Preload("Bids.Bidder", userSummary).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return models.Property{}, wrapLookup(err, "get property details %s", id)
	}
	return p, nil
}

// UpdateProperty applies an already validated set of column updates
func (r *GormPropertyRepo) UpdateProperty(ctx context.Context, id string, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update property %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrapLookup(gorm.ErrRecordNotFound, "update property %s", id)
	}
	return nil
}

// DeleteProperty soft-deletes a property; its bids stay as orphaned references
func (r *GormPropertyRepo) DeleteProperty(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Property{})
	if res.Error != nil {
		return fmt.Errorf("delete property %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrapLookup(gorm.ErrRecordNotFound, "delete property %s", id)
	}
	return nil
}

// ListProperties returns matching properties, newest first, plus the total match count.
// Limit <= 0 returns every match.
func (r *GormPropertyRepo) ListProperties(ctx context.Context, q PropertyQuery) ([]models.Property, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Property{})
	base = applyPropertyQuery(base, q)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	find := base.Session(&gorm.Session{}).Preload("Images", imagesInOrder).Order("created_at DESC")
	if q.IncludeOwner {
		find = find.Preload("Owner", userSummary)
	}
	if q.Limit > 0 {
		find = find.Limit(q.Limit).Offset(q.Offset)
	}

	var props []models.Property
	if err := find.Find(&props).Error; err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	return props, total, nil
}

func applyPropertyQuery(db *gorm.DB, q PropertyQuery) *gorm.DB {
	if q.ActiveOnly {
		db = db.Where("status = ?", models.PropertyActive)
	}
	if q.OpenAt != nil {
		db = db.Where("auction_end_date IS NULL OR auction_end_date > ?", *q.OpenAt)
	}
	if q.MinPrice != nil {
		db = db.Where("min_price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("min_price <= ?", *q.MaxPrice)
	}
	if q.StartOnOrAfter != nil {
		db = db.Where("start_date >= ?", *q.StartOnOrAfter)
	}
	if q.EndOnOrBefore != nil {
		db = db.Where("end_date <= ?", *q.EndOnOrBefore)
	}
	if q.LeaseCovers != nil {
		db = db.Where("start_date <= ? AND end_date >= ?", q.LeaseCovers.Start, q.LeaseCovers.End)
	}
	if q.MinBedrooms > 0 {
		db = db.Where("bedrooms >= ?", q.MinBedrooms)
	}
	if q.MinBathrooms > 0 {
		db = db.Where("bathrooms >= ?", q.MinBathrooms)
	}
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if b := q.Bounds; b != nil {
		db = db.Where("latitude BETWEEN ? AND ?", b.MinLat, b.MaxLat).
			Where("longitude BETWEEN ? AND ?", b.MinLng, b.MaxLng)
	}
	return db
}

// ListByOwner returns every property a user owns, newest first
func (r *GormPropertyRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	var props []models.Property
	err := r.db.WithContext(ctx).
		Preload("Images", imagesInOrder).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&props).Error
	if err != nil {
		return nil, fmt.Errorf("list properties for owner %s: %w", ownerID, err)
	}
	return props, nil
}

// AddImages inserts image rows
func (r *GormPropertyRepo) AddImages(ctx context.Context, images []models.PropertyImage) error {
	if len(images) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&images).Error; err != nil {
		return fmt.Errorf("add images to property %s: %w", images[0].PropertyID, err)
	}
	return nil
}

// ListImages returns a property's images in display order
func (r *GormPropertyRepo) ListImages(ctx context.Context, propertyID string) ([]models.PropertyImage, error) {
	var images []models.PropertyImage
	err := imagesInOrder(r.db.WithContext(ctx)).
		Where("property_id = ?", propertyID).
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("list images for property %s: %w", propertyID, err)
	}
	return images, nil
}

// GetImage returns one image belonging to a property
func (r *GormPropertyRepo) GetImage(ctx context.Context, propertyID, imageID string) (models.PropertyImage, error) {
	var img models.PropertyImage
	err := r.db.WithContext(ctx).
		Where("id = ? AND property_id = ?", imageID, propertyID).
		First(&img).Error
	if err != nil {
		return models.PropertyImage{}, wrapLookup(err, "get image %s of property %s", imageID, propertyID)
	}
	return img, nil
}

// ReorderImages sets order indexes for the given image ids in one transaction.
// Ids that do not belong to the property are ignored.
func (r *GormPropertyRepo) ReorderImages(ctx context.Context, propertyID string, order map[string]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for imageID, idx := range order {
			err := tx.Model(&models.PropertyImage{}).
				Where("id = ? AND property_id = ?", imageID, propertyID).
				Update("order_index", idx).Error
			if err != nil {
				return fmt.Errorf("reorder image %s: %w", imageID, err)
			}
		}
		return nil
	})
}

// DeleteImage removes an image row
func (r *GormPropertyRepo) DeleteImage(ctx context.Context, propertyID, imageID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND property_id = ?", imageID, propertyID).
		Delete(&models.PropertyImage{})
	if res.Error != nil {
		return fmt.Errorf("delete image %s: %w", imageID, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrapLookup(gorm.ErrRecordNotFound, "delete image %s", imageID)
	}
	return nil
}
