package helpers

import (
	"time"

	bidding "sublease-marketplace/internal/biddingService"
	"sublease-marketplace/internal/models"

	"github.com/shopspring/decimal"
)

// PlaceBidRequest is the body of POST /api/properties/:id/bids.
// Dates are optional and must be sent together.
type PlaceBidRequest struct {
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
}

// SelectWinnerRequest is the body of POST /api/properties/:id/select-winner
type SelectWinnerRequest struct {
	BidID string `json:"bid_id" binding:"required"`
}

// UserSummary is the public identity attached to bids and reviews
type UserSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// PropertySummary is the property view attached to bids
type PropertySummary struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	MinPrice decimal.Decimal `json:"min_price"`
	Status   string          `json:"status"`
	Image    string          `json:"image,omitempty"`
}

type BidResponse struct {
	BidID      string           `json:"id"`
	PropertyID string           `json:"property_id"`
	BidderID   string           `json:"bidder_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Status     string           `json:"status"`
	StartDate  *string          `json:"start_date"`
	EndDate    *string          `json:"end_date"`
	CreatedAt  string           `json:"created_at"`
	UpdatedAt  string           `json:"updated_at"`
	Bidder     *UserSummary     `json:"bidder,omitempty"`
	Property   *PropertySummary `json:"property,omitempty"`
}

type OrderBookResponse struct {
	PropertyID string          `json:"property_id"`
	Bids       []BidResponse   `json:"bids"`
	HighestBid decimal.Decimal `json:"highest_bid"`
	BidCount   int             `json:"bid_count"`
}

type BidHistoryResponse struct {
	ActiveBids []BidResponse `json:"active_bids"`
	WonBids    []BidResponse `json:"won_bids"`
	LostBids   []BidResponse `json:"lost_bids"`
}

// NewUserSummary returns nil for a missing user
func NewUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, ProfileImageURL: u.ProfileImageURL}
}

func NewBidResponse(b models.Bid) BidResponse {
	resp := BidResponse{
		BidID:      b.ID,
		PropertyID: b.PropertyID,
		BidderID:   b.BidderID,
		Amount:     b.Amount,
		Status:     string(b.Status),
		StartDate:  formatOptionalTime(b.StartDate),
		EndDate:    formatOptionalTime(b.EndDate),
		CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  b.UpdatedAt.UTC().Format(time.RFC3339),
		Bidder:     NewUserSummary(b.Bidder),
	}
	if b.Property != nil {
		resp.Property = &PropertySummary{
			ID:       b.Property.ID,
			Title:    b.Property.Title,
			MinPrice: b.Property.MinPrice,
			Status:   string(b.Property.Status),
			Image:    b.Property.PrimaryImageURL(),
		}
	}
	return resp
}

// NewBidResponses never returns nil so empty lists encode as []
func NewBidResponses(bids []models.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, NewBidResponse(b))
	}
	return out
}

func NewOrderBookResponse(book bidding.OrderBook) OrderBookResponse {
	return OrderBookResponse{
		PropertyID: book.PropertyID,
		Bids:       NewBidResponses(book.Bids),
		HighestBid: book.HighestBid,
		BidCount:   book.BidCount,
	}
}

func NewBidHistoryResponse(h bidding.BidHistory) BidHistoryResponse {
	return BidHistoryResponse{
		ActiveBids: NewBidResponses(h.Active),
		WonBids:    NewBidResponses(h.Won),
		LostBids:   NewBidResponses(h.Lost),
	}
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
