package repository

import (
	"context"
	"errors"
	"fmt"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAuctionRepo implements AuctionDB on a relational database
type GormAuctionRepo struct {
	db *gorm.DB
}

// NewGormAuctionRepo creates a GORM-backed auction repository
func NewGormAuctionRepo(db *gorm.DB) *GormAuctionRepo {
	return &GormAuctionRepo{db: db}
}

var _ AuctionDB = (*GormAuctionRepo)(nil)

// GetAuctionState returns the auction view of a property
func (r *GormAuctionRepo) GetAuctionState(ctx context.Context, propertyID string) (models.AuctionState, error) {
	var p models.Property
	err := r.db.WithContext(ctx).
		Preload("Images", imagesInOrder).
		Where("id = ?", propertyID).
		First(&p).Error
	if err != nil {
		return models.AuctionState{}, wrapLookup(err, "get auction state for property %s", propertyID)
	}
	return p.AuctionState(), nil
}

// GetBid returns a bid with its bidder summary and property attached
func (r *GormAuctionRepo) GetBid(ctx context.Context, bidID string) (models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).
		Preload("Bidder", userSummary).
		Preload("Property").
		Preload("Property.Images", imagesInOrder).
		Where("id = ?", bidID).
		First(&bid).Error
	if err != nil {
		return models.Bid{}, wrapLookup(err, "get bid %s", bidID)
	}
	return bid, nil
}

// ListActiveBids returns all active bids for a property with bidders attached
func (r *GormAuctionRepo) ListActiveBids(ctx context.Context, propertyID string) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.WithContext(ctx).
		Preload("Bidder", userSummary).
		Where("property_id = ? AND status = ?", propertyID, models.BidActive).
		Order("amount DESC").
		Order("created_at DESC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("list active bids for property %s: %w", propertyID, err)
	}
	return bids, nil
}

// ListActiveBidsByBidder returns the active bids one bidder holds on a property
func (r *GormAuctionRepo) ListActiveBidsByBidder(ctx context.Context, propertyID, bidderID string) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND bidder_id = ? AND status = ?", propertyID, bidderID, models.BidActive).
		Order("created_at ASC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("list active bids for bidder %s on property %s: %w", bidderID, propertyID, err)
	}
	return bids, nil
}

// ListBidsByBidder returns every bid a user has placed, newest first, with properties attached
func (r *GormAuctionRepo) ListBidsByBidder(ctx context.Context, bidderID string) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Property.Images", imagesInOrder).
		Where("bidder_id = ?", bidderID).
		Order("created_at DESC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("list bids for bidder %s: %w", bidderID, err)
	}
	return bids, nil
}

// RecordBid inserts a new bid row
func (r *GormAuctionRepo) RecordBid(ctx context.Context, bid *models.Bid) error {
	if bid.Status == "" {
		bid.Status = models.BidActive
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(bid).Error; err != nil {
		return fmt.Errorf("record bid for property %s: %w", bid.PropertyID, err)
	}
	return nil
}

// UpdateBidAmount changes the amount of a bid that is still active
func (r *GormAuctionRepo) UpdateBidAmount(ctx context.Context, bidID string, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.Bid{}).
		Where("id = ? AND status = ?", bidID, models.BidActive).
		Update("amount", amount)
	if res.Error != nil {
		return fmt.Errorf("update bid %s amount: %w", bidID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update bid %s amount: %w", bidID, biddingerrors.ErrInvalidStateTransition)
	}
	return nil
}

// TransitionBid moves a bid from one status to another, failing if it is no longer in from
func (r *GormAuctionRepo) TransitionBid(ctx context.Context, bidID string, from, to models.BidStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Bid{}).
		Where("id = ? AND status = ?", bidID, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("transition bid %s to %s: %w", bidID, to, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("transition bid %s from %s: %w", bidID, from, biddingerrors.ErrInvalidStateTransition)
	}
	return nil
}

// CloseAuction marks the winning bid won, ends the property and withdraws every other
// active bid in a single transaction. Any failure rolls all three writes back.
func (r *GormAuctionRepo) CloseAuction(ctx context.Context, propertyID, winningBidID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Bid{}).
			Where("id = ? AND property_id = ? AND status = ?", winningBidID, propertyID, models.BidActive).
			Update("status", models.BidWon)
		if res.Error != nil {
			return fmt.Errorf("close auction %s: mark bid %s won: %w", propertyID, winningBidID, res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("close auction %s: bid %s is not active: %w", propertyID, winningBidID, biddingerrors.ErrInvalidStateTransition)
		}

		res = tx.Model(&models.Property{}).
			Where("id = ? AND status = ?", propertyID, models.PropertyActive).
			Update("status", models.PropertyEnded)
		if res.Error != nil {
			return fmt.Errorf("close auction %s: end property: %w", propertyID, res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("close auction %s: property is not active: %w", propertyID, biddingerrors.ErrInvalidStateTransition)
		}

		res = tx.Model(&models.Bid{}).
			Where("property_id = ? AND id <> ? AND status = ?", propertyID, winningBidID, models.BidActive).
			Update("status", models.BidWithdrawn)
		if res.Error != nil {
			return fmt.Errorf("close auction %s: withdraw losing bids: %w", propertyID, res.Error)
		}
		return nil
	})
}

// wrapLookup converts gorm's not-found into the domain error and adds context
func wrapLookup(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", msg, biddingerrors.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
