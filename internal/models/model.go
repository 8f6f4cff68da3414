package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PropertyStatus is the auction state of a listing
type PropertyStatus string

const (
	PropertyActive PropertyStatus = "active"
	PropertyEnded  PropertyStatus = "ended"
	PropertyRented PropertyStatus = "rented"
)

// BidStatus is the lifecycle state of a bid. Withdrawn and won are terminal.
type BidStatus string

const (
	BidActive    BidStatus = "active"
	BidWithdrawn BidStatus = "withdrawn"
	BidWon       BidStatus = "won"
)

// MaxAmount is the largest price a decimal(12,2) column holds
var MaxAmount = decimal.RequireFromString("9999999999.99")

// User represents a marketplace account
type User struct {
	ID              string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name            string         `gorm:"type:varchar(255);not null" json:"name"`
	Email           string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash    string         `gorm:"type:varchar(255);not null" json:"-"`
	PhoneNumber     string         `gorm:"type:varchar(32)" json:"phone_number,omitempty"`
	Bio             string         `gorm:"type:text" json:"bio,omitempty"`
	ProfileImageURL string         `gorm:"type:varchar(1024)" json:"profile_image_url,omitempty"`
	VerifiedStatus  string         `gorm:"type:varchar(32);not null;default:unverified" json:"verified_status"`
	Role            string         `gorm:"type:varchar(32);not null;default:user" json:"role"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	ReceivedReviews []Review `gorm:"foreignKey:ReviewedID" json:"received_reviews,omitempty"`
}

// Property is a sub-lease listing and, while active, an auction
type Property struct {
	ID           string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       string          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title        string          `gorm:"type:varchar(255);not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description,omitempty"`
	Address      string          `gorm:"type:varchar(512);not null" json:"address"`
	PlaceID      string          `gorm:"type:varchar(255)" json:"place_id,omitempty"`
	Latitude     *float64        `json:"latitude,omitempty"`
	Longitude    *float64        `json:"longitude,omitempty"`
	Bedrooms     int             `gorm:"not null;default:0" json:"bedrooms"`
	Bathrooms    int             `gorm:"not null;default:0" json:"bathrooms"`
	Type         string          `gorm:"type:varchar(64)" json:"type,omitempty"`
	StartDate    *time.Time      `json:"start_date,omitempty"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
	MinPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"min_price"`
	Status       PropertyStatus  `gorm:"type:varchar(16);not null;default:active;index" json:"status"`
	AuctionEndAt *time.Time      `gorm:"column:auction_end_date" json:"auction_end_date,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	Owner  *User           `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Images []PropertyImage `gorm:"foreignKey:PropertyID" json:"images,omitempty"`
	Bids   []Bid           `gorm:"foreignKey:PropertyID" json:"bids,omitempty"`
}

// PrimaryImageURL returns the first image by order index, or "" when there is none.
// Images are expected to be loaded in order.
func (p Property) PrimaryImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].ImageURL
}

// AuctionState projects the fields the bid ledger reads
func (p Property) AuctionState() AuctionState {
	return AuctionState{
		PropertyID:   p.ID,
		OwnerID:      p.UserID,
		Title:        p.Title,
		MinPrice:     p.MinPrice,
		Status:       p.Status,
		AuctionEndAt: p.AuctionEndAt,
		LeaseStart:   p.StartDate,
		LeaseEnd:     p.EndDate,
		PrimaryImage: p.PrimaryImageURL(),
	}
}

// AuctionState is the read-only view of a property used when validating bids
type AuctionState struct {
	PropertyID   string
	OwnerID      string
	Title        string
	MinPrice     decimal.Decimal
	Status       PropertyStatus
	AuctionEndAt *time.Time
	LeaseStart   *time.Time
	LeaseEnd     *time.Time
	PrimaryImage string
}

// AcceptsBids reports whether the auction is active and not past its end date at now
func (s AuctionState) AcceptsBids(now time.Time) bool {
	if s.Status != PropertyActive {
		return false
	}
	return s.AuctionEndAt == nil || s.AuctionEndAt.After(now)
}

// PropertyImage is an uploaded listing photo
type PropertyImage struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PropertyID string    `gorm:"type:varchar(36);not null;index" json:"property_id"`
	ImageURL   string    `gorm:"type:varchar(1024);not null" json:"image_url"`
	StorageKey string    `gorm:"type:varchar(512)" json:"-"`
	OrderIndex int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Bid represents a user's bid on a property
type Bid struct {
	ID         string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PropertyID string          `gorm:"type:varchar(36);not null;index:idx_bids_property_status" json:"property_id"`
	BidderID   string          `gorm:"type:varchar(36);not null;index" json:"bidder_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status     BidStatus       `gorm:"type:varchar(16);not null;default:active;index:idx_bids_property_status" json:"status"`
	StartDate  *time.Time      `json:"start_date,omitempty"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	Bidder   *User     `gorm:"foreignKey:BidderID" json:"bidder,omitempty"`
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

// Window returns the bid's lease interval; ok is false for undated bids
func (b Bid) Window() (Interval, bool) {
	if b.StartDate == nil || b.EndDate == nil {
		return Interval{}, false
	}
	return Interval{Start: *b.StartDate, End: *b.EndDate}, true
}

// Review is a rating left by a user for a property owner
type Review struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ReviewerID string    `gorm:"type:varchar(36);not null;index" json:"reviewer_id"`
	ReviewedID string    `gorm:"type:varchar(36);not null;index" json:"reviewed_id"`
	PropertyID string    `gorm:"type:varchar(36);not null;index" json:"property_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}
