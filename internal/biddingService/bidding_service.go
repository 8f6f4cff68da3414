package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/metrics"
	"sublease-marketplace/internal/models"
	"sublease-marketplace/internal/repository"
	"sublease-marketplace/utils"

	"github.com/shopspring/decimal"
)

// BidRecorder receives bid ledger outcomes, e.g. for metrics
type BidRecorder interface {
	ObserveBid(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveBid(string) {}

// Option configures a BiddingService
type Option func(*BiddingService)

// WithClock overrides the time source used for auction expiry and date checks
func WithClock(now func() time.Time) Option {
	return func(s *BiddingService) { s.now = now }
}

// WithRecorder reports bid outcomes to r
func WithRecorder(r BidRecorder) Option {
	return func(s *BiddingService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// BiddingService defines the business logic for property auctions
type BiddingService struct {
	repo     repository.AuctionDB
	now      func() time.Time
	recorder BidRecorder
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:     repo,
		now:      time.Now,
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitBidInput carries a bid submission. Dates are optional but must be given together.
type SubmitBidInput struct {
	PropertyID string
	BidderID   string
	Amount     decimal.Decimal
	StartDate  string
	EndDate    string
}

// SubmitBidResult is the stored bid and whether a new row was created
type SubmitBidResult struct {
	Bid     models.Bid
	Created bool
}

// SubmitBid validates and records a bid on a property.
// Undated bids replace the amount of the bidder's existing undated active bid; dated bids are always new rows.
func (s *BiddingService) SubmitBid(ctx context.Context, in SubmitBidInput) (SubmitBidResult, error) {
	if in.BidderID == "" {
		return SubmitBidResult{}, fmt.Errorf("service: %w - missing bidder", biddingerrors.ErrInvalidBid)
	}

	now := s.now().UTC()
	state, err := s.loadOpenAuction(ctx, in.PropertyID, now)
	if err != nil {
		s.recorder.ObserveBid(metrics.OutcomeRejected)
		return SubmitBidResult{}, err
	}

	window, dated, err := parseBidWindow(in.StartDate, in.EndDate, now)
	if err != nil {
		s.recorder.ObserveBid(metrics.OutcomeRejected)
		return SubmitBidResult{}, err
	}

	if in.Amount.GreaterThan(models.MaxAmount) {
		s.recorder.ObserveBid(metrics.OutcomeRejected)
		return SubmitBidResult{}, fmt.Errorf("service: %w - bid must not exceed %s",
			biddingerrors.ErrValidation, models.MaxAmount.StringFixed(2))
	}
	if in.Amount.LessThan(state.MinPrice) {
		s.recorder.ObserveBid(metrics.OutcomeRejected)
		return SubmitBidResult{}, fmt.Errorf("service: %w - bid must be at least %s",
			biddingerrors.ErrAmountBelowMinimum, state.MinPrice.StringFixed(2))
	}

	existing, err := s.repo.ListActiveBidsByBidder(ctx, in.PropertyID, in.BidderID)
	if err != nil {
		return SubmitBidResult{}, fmt.Errorf("service: failed to load bids of user %s on property %s: %w", in.BidderID, in.PropertyID, err)
	}

	var bidID string
	created := true
	if dated {
		for _, b := range existing {
			if w, ok := b.Window(); ok && w.Overlaps(window) {
				s.recorder.ObserveBid(metrics.OutcomeRejected)
				return SubmitBidResult{}, fmt.Errorf("service: %w - existing bid %s covers %s to %s",
					biddingerrors.ErrOverlappingBid, b.ID, w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
			}
		}
		bidID, err = s.insertBid(ctx, in, &window, now)
	} else {
		bidID, created, err = s.upsertUndatedBid(ctx, in, existing, now)
	}
	if err != nil {
		return SubmitBidResult{}, err
	}

	bid, err := s.repo.GetBid(ctx, bidID)
	if err != nil {
		return SubmitBidResult{}, fmt.Errorf("service: failed to reload bid %s: %w", bidID, err)
	}

	if created {
		s.recorder.ObserveBid(metrics.OutcomeCreated)
	} else {
		s.recorder.ObserveBid(metrics.OutcomeUpdated)
	}
	return SubmitBidResult{Bid: bid, Created: created}, nil
}

func (s *BiddingService) upsertUndatedBid(ctx context.Context, in SubmitBidInput, existing []models.Bid, now time.Time) (string, bool, error) {
	for _, b := range existing {
		if _, dated := b.Window(); dated {
			continue
		}
		if err := s.repo.UpdateBidAmount(ctx, b.ID, in.Amount); err != nil {
			return "", false, fmt.Errorf("service: failed to update bid %s: %w", b.ID, err)
		}
		return b.ID, false, nil
	}

	id, err := s.insertBid(ctx, in, nil, now)
	return id, true, err
}

func (s *BiddingService) insertBid(ctx context.Context, in SubmitBidInput, window *models.Interval, now time.Time) (string, error) {
	bid := models.Bid{
		ID:         utils.GenerateID(),
		PropertyID: in.PropertyID,
		BidderID:   in.BidderID,
		Amount:     in.Amount,
		Status:     models.BidActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if window != nil {
		start, end := window.Start, window.End
		bid.StartDate, bid.EndDate = &start, &end
	}

	if err := s.repo.RecordBid(ctx, &bid); err != nil {
		return "", fmt.Errorf("service: failed to record bid for property %s by user %s: %w", in.PropertyID, in.BidderID, err)
	}
	return bid.ID, nil
}

// loadOpenAuction returns the auction state when the property currently accepts bids
func (s *BiddingService) loadOpenAuction(ctx context.Context, propertyID string, now time.Time) (models.AuctionState, error) {
	if propertyID == "" {
		return models.AuctionState{}, fmt.Errorf("service: %w - empty property ID", biddingerrors.ErrAuctionNotAvailable)
	}

	state, err := s.repo.GetAuctionState(ctx, propertyID)
	if errors.Is(err, biddingerrors.ErrNotFound) {
		return models.AuctionState{}, fmt.Errorf("service: %w - property %s does not exist", biddingerrors.ErrAuctionNotAvailable, propertyID)
	}
	if err != nil {
		return models.AuctionState{}, fmt.Errorf("service: failed to load property %s: %w", propertyID, err)
	}
	if !state.AcceptsBids(now) {
		return models.AuctionState{}, fmt.Errorf("service: %w - property %s is %s", biddingerrors.ErrAuctionNotAvailable, propertyID, state.Status)
	}
	return state, nil
}

// WithdrawBid withdraws one of the caller's active bids
func (s *BiddingService) WithdrawBid(ctx context.Context, bidID, callerID string) (models.Bid, error) {
	bid, err := s.repo.GetBid(ctx, bidID)
	if errors.Is(err, biddingerrors.ErrNotFound) {
		return models.Bid{}, fmt.Errorf("service: %w - bid %s not found or not owned by caller", biddingerrors.ErrForbidden, bidID)
	}
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load bid %s: %w", bidID, err)
	}
	if bid.BidderID != callerID {
		return models.Bid{}, fmt.Errorf("service: %w - bid %s not found or not owned by caller", biddingerrors.ErrForbidden, bidID)
	}
	if bid.Status != models.BidActive {
		return models.Bid{}, fmt.Errorf("service: %w - bid %s is %s", biddingerrors.ErrInvalidStateTransition, bidID, bid.Status)
	}

	if err := s.repo.TransitionBid(ctx, bidID, models.BidActive, models.BidWithdrawn); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to withdraw bid %s: %w", bidID, err)
	}

	s.recorder.ObserveBid(metrics.OutcomeWithdrawn)
	bid.Status = models.BidWithdrawn
	bid.UpdatedAt = s.now().UTC()
	return bid, nil
}

// SelectWinner closes the auction: the chosen bid wins, every other active bid is withdrawn
// and the property ends, all in one repository transaction.
func (s *BiddingService) SelectWinner(ctx context.Context, propertyID, bidID, callerID string) (models.Bid, error) {
	state, err := s.repo.GetAuctionState(ctx, propertyID)
	if errors.Is(err, biddingerrors.ErrNotFound) {
		return models.Bid{}, fmt.Errorf("service: %w - property %s not found or not owned by caller", biddingerrors.ErrForbidden, propertyID)
	}
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load property %s: %w", propertyID, err)
	}
	if state.OwnerID != callerID {
		return models.Bid{}, fmt.Errorf("service: %w - property %s not found or not owned by caller", biddingerrors.ErrForbidden, propertyID)
	}
	if state.Status != models.PropertyActive {
		return models.Bid{}, fmt.Errorf("service: %w - property %s is already %s", biddingerrors.ErrInvalidStateTransition, propertyID, state.Status)
	}

	bid, err := s.repo.GetBid(ctx, bidID)
	if errors.Is(err, biddingerrors.ErrNotFound) {
		return models.Bid{}, fmt.Errorf("service: %w - bid %s does not exist", biddingerrors.ErrInvalidBid, bidID)
	}
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load bid %s: %w", bidID, err)
	}
	if bid.PropertyID != propertyID {
		return models.Bid{}, fmt.Errorf("service: %w - bid %s does not belong to property %s", biddingerrors.ErrInvalidBid, bidID, propertyID)
	}
	if bid.Status != models.BidActive {
		return models.Bid{}, fmt.Errorf("service: %w - bid %s is %s", biddingerrors.ErrInvalidStateTransition, bidID, bid.Status)
	}

	if err := s.repo.CloseAuction(ctx, propertyID, bidID); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to close auction %s: %w", propertyID, err)
	}
	s.recorder.ObserveBid(metrics.OutcomeWinnerPick)

	won, err := s.repo.GetBid(ctx, bidID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to reload winning bid %s: %w", bidID, err)
	}
	return won, nil
}

// GetOrderBook returns the ranked active bids of a property, optionally limited to a date range
func (s *BiddingService) GetOrderBook(ctx context.Context, propertyID, startDate, endDate string) (OrderBook, error) {
	filter, err := parseRangeFilter(startDate, endDate)
	if err != nil {
		return OrderBook{}, err
	}

	if _, err := s.repo.GetAuctionState(ctx, propertyID); err != nil {
		return OrderBook{}, fmt.Errorf("service: failed to load property %s: %w", propertyID, err)
	}

	bids, err := s.repo.ListActiveBids(ctx, propertyID)
	if err != nil {
		return OrderBook{}, fmt.Errorf("service: failed to get bids for property %s: %w", propertyID, err)
	}

	return BuildOrderBook(propertyID, bids, filter), nil
}

// BidHistory partitions a user's bids by outcome
type BidHistory struct {
	Active []models.Bid
	Won    []models.Bid
	Lost   []models.Bid
}

// GetUserBids returns the caller's own bid history, newest first
func (s *BiddingService) GetUserBids(ctx context.Context, userID, callerID string) (BidHistory, error) {
	if userID == "" || userID != callerID {
		return BidHistory{}, fmt.Errorf("service: %w - bid history is only visible to its owner", biddingerrors.ErrForbidden)
	}

	bids, err := s.repo.ListBidsByBidder(ctx, userID)
	if err != nil {
		return BidHistory{}, fmt.Errorf("service: failed to get bids for user %s: %w", userID, err)
	}

	history := BidHistory{
		Active: []models.Bid{},
		Won:    []models.Bid{},
		Lost:   []models.Bid{},
	}
	for _, b := range bids {
		switch b.Status {
		case models.BidActive:
			history.Active = append(history.Active, b)
		case models.BidWon:
			history.Won = append(history.Won, b)
		case models.BidWithdrawn:
			history.Lost = append(history.Lost, b)
		}
	}
	return history, nil
}

// parseBidWindow validates optional bid dates. dated is false when neither date was given.
func parseBidWindow(startDate, endDate string, now time.Time) (models.Interval, bool, error) {
	if startDate == "" && endDate == "" {
		return models.Interval{}, false, nil
	}
	if startDate == "" || endDate == "" {
		return models.Interval{}, false, fmt.Errorf("service: %w - start_date and end_date must be given together", biddingerrors.ErrInvalidDateFormat)
	}

	start, err := utils.ParseTime(startDate)
	if err != nil {
		return models.Interval{}, false, fmt.Errorf("service: %w - start_date %q", biddingerrors.ErrInvalidDateFormat, startDate)
	}
	end, err := utils.ParseTime(endDate)
	if err != nil {
		return models.Interval{}, false, fmt.Errorf("service: %w - end_date %q", biddingerrors.ErrInvalidDateFormat, endDate)
	}
	if !start.After(now) {
		return models.Interval{}, false, fmt.Errorf("service: %w", biddingerrors.ErrStartDateNotFuture)
	}
	if !end.After(start) {
		return models.Interval{}, false, fmt.Errorf("service: %w", biddingerrors.ErrEndDateBeforeStart)
	}
	return models.Interval{Start: start, End: end}, true, nil
}

// parseRangeFilter validates the optional order book date filter
func parseRangeFilter(startDate, endDate string) (*models.Interval, error) {
	if startDate == "" && endDate == "" {
		return nil, nil
	}
	if startDate == "" || endDate == "" {
		return nil, fmt.Errorf("service: %w - start_date and end_date must be given together", biddingerrors.ErrInvalidDateFormat)
	}

	start, err := utils.ParseTime(startDate)
	if err != nil {
		return nil, fmt.Errorf("service: %w - start_date %q", biddingerrors.ErrInvalidDateFormat, startDate)
	}
	end, err := utils.ParseTime(endDate)
	if err != nil {
		return nil, fmt.Errorf("service: %w - end_date %q", biddingerrors.ErrInvalidDateFormat, endDate)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("service: %w", biddingerrors.ErrEndDateBeforeStart)
	}
	return &models.Interval{Start: start, End: end}, nil
}
