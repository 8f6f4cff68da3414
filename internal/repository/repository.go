package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/models"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionDB defines the auction registry and bid ledger storage used by the bidding service
type AuctionDB interface {
	GetAuctionState(ctx context.Context, propertyID string) (models.AuctionState, error)
	GetBid(ctx context.Context, bidID string) (models.Bid, error)
	ListActiveBids(ctx context.Context, propertyID string) ([]models.Bid, error)
	ListActiveBidsByBidder(ctx context.Context, propertyID, bidderID string) ([]models.Bid, error)
	ListBidsByBidder(ctx context.Context, bidderID string) ([]models.Bid, error)
	RecordBid(ctx context.Context, bid *models.Bid) error
	UpdateBidAmount(ctx context.Context, bidID string, amount decimal.Decimal) error
	TransitionBid(ctx context.Context, bidID string, from, to models.BidStatus) error
	CloseAuction(ctx context.Context, propertyID, winningBidID string) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu         sync.RWMutex
	bids       map[string][]models.Bid    // key: propertyID -> value: list of bids
	bidIndex   map[string]string          // key: bidID -> value: propertyID
	properties map[string]models.Property // key: propertyID -> value: property
	users      map[string]models.User     // key: userID -> value: user
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		bids:       make(map[string][]models.Bid),
		bidIndex:   make(map[string]string),
		properties: make(map[string]models.Property),
		users:      make(map[string]models.User),
	}
}

// GetAuctionState returns the auction view of a property
func (r *MemoryRepo) GetAuctionState(_ context.Context, propertyID string) (models.AuctionState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.properties[propertyID]
	if !ok {
		return models.AuctionState{}, fmt.Errorf("get auction state for property %s: %w", propertyID, biddingerrors.ErrNotFound)
	}
	return p.AuctionState(), nil
}

// GetBid returns a bid with its bidder and property attached
func (r *MemoryRepo) GetBid(_ context.Context, bidID string) (models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, propertyID, ok := r.locate(bidID)
	if !ok {
		return models.Bid{}, fmt.Errorf("get bid %s: %w", bidID, biddingerrors.ErrNotFound)
	}
	bid := r.bids[propertyID][i]
	r.attachBidder(&bid)
	r.attachProperty(&bid)
	return bid, nil
}

// ListActiveBids returns all active bids for a property with bidders attached
func (r *MemoryRepo) ListActiveBids(_ context.Context, propertyID string) ([]models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []models.Bid
	for _, b := range r.bids[propertyID] {
		if b.Status == models.BidActive {
			r.attachBidder(&b)
			active = append(active, b)
		}
	}
	return active, nil
}

// ListActiveBidsByBidder returns the active bids one bidder holds on a property
func (r *MemoryRepo) ListActiveBidsByBidder(_ context.Context, propertyID, bidderID string) ([]models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []models.Bid
	for _, b := range r.bids[propertyID] {
		if b.BidderID == bidderID && b.Status == models.BidActive {
			active = append(active, b)
		}
	}
	return active, nil
}

// ListBidsByBidder returns every bid a user has placed, newest first, with properties attached
func (r *MemoryRepo) ListBidsByBidder(_ context.Context, bidderID string) ([]models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Bid
	for _, list := range r.bids {
		for _, b := range list {
			if b.BidderID == bidderID {
				r.attachProperty(&b)
				out = append(out, b)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// RecordBid stores a new bid against an existing property
func (r *MemoryRepo) RecordBid(_ context.Context, bid *models.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.properties[bid.PropertyID]; !ok {
		return fmt.Errorf("record bid for property %s: %w", bid.PropertyID, biddingerrors.ErrNotFound)
	}

	now := time.Now().UTC()
	if bid.CreatedAt.IsZero() {
		bid.CreatedAt = now
	}
	bid.UpdatedAt = bid.CreatedAt
	if bid.Status == "" {
		bid.Status = models.BidActive
	}

	stored := *bid
	stored.Bidder = nil
	stored.Property = nil
	r.bids[bid.PropertyID] = append(r.bids[bid.PropertyID], stored)
	r.bidIndex[bid.ID] = bid.PropertyID
	return nil
}

// UpdateBidAmount changes the amount of a bid that is still active
func (r *MemoryRepo) UpdateBidAmount(_ context.Context, bidID string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, propertyID, ok := r.locate(bidID)
	if !ok {
		return fmt.Errorf("update bid %s: %w", bidID, biddingerrors.ErrNotFound)
	}
	b := &r.bids[propertyID][i]
	if b.Status != models.BidActive {
		return fmt.Errorf("update bid %s in status %s: %w", bidID, b.Status, biddingerrors.ErrInvalidStateTransition)
	}
	b.Amount = amount
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// TransitionBid moves a bid from one status to another, failing if it is no longer in from
func (r *MemoryRepo) TransitionBid(_ context.Context, bidID string, from, to models.BidStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, propertyID, ok := r.locate(bidID)
	if !ok {
		return fmt.Errorf("transition bid %s: %w", bidID, biddingerrors.ErrNotFound)
	}
	b := &r.bids[propertyID][i]
	if b.Status != from {
		return fmt.Errorf("transition bid %s from %s: %w", bidID, b.Status, biddingerrors.ErrInvalidStateTransition)
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// CloseAuction marks the winning bid won, ends the property and withdraws the remaining active bids.
// All checks happen before any write so a failure leaves nothing changed.
func (r *MemoryRepo) CloseAuction(_ context.Context, propertyID, winningBidID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.properties[propertyID]
	if !ok {
		return fmt.Errorf("close auction %s: %w", propertyID, biddingerrors.ErrNotFound)
	}
	if p.Status != models.PropertyActive {
		return fmt.Errorf("close auction %s in status %s: %w", propertyID, p.Status, biddingerrors.ErrInvalidStateTransition)
	}

	i, bidProperty, ok := r.locate(winningBidID)
	if !ok || bidProperty != propertyID {
		return fmt.Errorf("close auction %s with bid %s: %w", propertyID, winningBidID, biddingerrors.ErrInvalidBid)
	}
	if r.bids[propertyID][i].Status != models.BidActive {
		return fmt.Errorf("close auction %s: winning bid %s: %w", propertyID, winningBidID, biddingerrors.ErrInvalidStateTransition)
	}

	now := time.Now().UTC()
	list := r.bids[propertyID]
	for j := range list {
		switch {
		case list[j].ID == winningBidID:
			list[j].Status = models.BidWon
			list[j].UpdatedAt = now
		case list[j].Status == models.BidActive:
			list[j].Status = models.BidWithdrawn
			list[j].UpdatedAt = now
		}
	}
	p.Status = models.PropertyEnded
	p.UpdatedAt = now
	r.properties[propertyID] = p
	return nil
}

// AddProperty adds a property to the repository. This method is intended for tests and benchmarks only.
func (r *MemoryRepo) AddProperty(p models.Property) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Status == "" {
		p.Status = models.PropertyActive
	}
	r.properties[p.ID] = p
}

// AddUser adds a user to the repository. This method is intended for tests and benchmarks only.
func (r *MemoryRepo) AddUser(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

// locate finds a bid's slice position; caller must hold the lock
func (r *MemoryRepo) locate(bidID string) (int, string, bool) {
	propertyID, ok := r.bidIndex[bidID]
	if !ok {
		return 0, "", false
	}
	for i, b := range r.bids[propertyID] {
		if b.ID == bidID {
			return i, propertyID, true
		}
	}
	return 0, "", false
}

func (r *MemoryRepo) attachBidder(b *models.Bid) {
	if u, ok := r.users[b.BidderID]; ok {
		b.Bidder = &models.User{ID: u.ID, Name: u.Name, ProfileImageURL: u.ProfileImageURL}
	}
}

func (r *MemoryRepo) attachProperty(b *models.Bid) {
	if p, ok := r.properties[b.PropertyID]; ok {
		p.Bids = nil
		b.Property = &p
	}
}
