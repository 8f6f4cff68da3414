package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Helper to create a new Property
func newProperty(id, ownerID string, minPrice int64) models.Property {
	return models.Property{
		ID:       id,
		UserID:   ownerID,
		Title:    fmt.Sprintf("%s title", id),
		Address:  "1 Main St",
		MinPrice: decimal.NewFromInt(minPrice),
		Status:   models.PropertyActive,
	}
}

// Helper to create a new Bid
func newBid(bidID, propertyID, bidderID string, amount int64, createdAt time.Time) models.Bid {
	return models.Bid{
		ID:         bidID,
		PropertyID: propertyID,
		BidderID:   bidderID,
		Amount:     decimal.NewFromInt(amount),
		CreatedAt:  createdAt,
	}
}

func seededRepo(t *testing.T) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepo()
	repo.AddUser(models.User{ID: "owner1", Name: "Owner"})
	repo.AddUser(models.User{ID: "user1", Name: "Alice", ProfileImageURL: "http://img/alice.png"})
	repo.AddUser(models.User{ID: "user2", Name: "Bob"})
	repo.AddProperty(newProperty("prop1", "owner1", 1000))
	repo.AddProperty(newProperty("prop2", "owner1", 500))
	return repo
}

func TestMemoryRepo_RecordBid(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		bid     models.Bid
		wantErr error
	}{
		{name: "valid_bid", bid: newBid("bid1", "prop1", "user1", 1200, time.Now())},
		{name: "property_not_found", bid: newBid("bid2", "propX", "user1", 1200, time.Now()), wantErr: biddingerrors.ErrNotFound},
		{name: "empty_property_id", bid: newBid("bid3", "", "user1", 1200, time.Now()), wantErr: biddingerrors.ErrNotFound},
		{name: "zero_created_at_is_stamped", bid: newBid("bid4", "prop2", "user2", 600, time.Time{})},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			bid := tc.bid
			err := repo.RecordBid(ctx, &bid)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, models.BidActive, bid.Status)
			require.False(t, bid.CreatedAt.IsZero())

			got, err := repo.GetBid(ctx, bid.ID)
			require.NoError(t, err)
			require.True(t, got.Amount.Equal(bid.Amount))
			require.NotNil(t, got.Bidder)
			require.NotNil(t, got.Property)
		})
	}

	t.Run("concurrent_bids", func(t *testing.T) {
		t.Parallel()

		repo := seededRepo(t)
		var wg sync.WaitGroup
		concurrentCount := 50

		for i := 0; i < concurrentCount; i++ {
			wg.Add(1)
			i := i
			go func() {
				defer wg.Done()
				b := newBid(fmt.Sprintf("bid-%d", i), "prop1", fmt.Sprintf("user-%d", i), int64(1000+i), time.Now())
				require.NoError(t, repo.RecordBid(ctx, &b))
			}()
		}
		wg.Wait()

		bids, err := repo.ListActiveBids(ctx, "prop1")
		require.NoError(t, err)
		require.Len(t, bids, concurrentCount)
	})
}

func TestMemoryRepo_GetAuctionState(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t)
	ctx := context.Background()

	state, err := repo.GetAuctionState(ctx, "prop1")
	require.NoError(t, err)
	require.Equal(t, "owner1", state.OwnerID)
	require.True(t, state.MinPrice.Equal(decimal.NewFromInt(1000)))
	require.Equal(t, models.PropertyActive, state.Status)

	_, err = repo.GetAuctionState(ctx, "missing")
	require.ErrorIs(t, err, biddingerrors.ErrNotFound)
}

func TestMemoryRepo_ListBids(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t)
	ctx := context.Background()
	base := time.Now().UTC()

	b1 := newBid("b1", "prop1", "user1", 1100, base)
	b2 := newBid("b2", "prop1", "user2", 1300, base.Add(time.Second))
	b3 := newBid("b3", "prop2", "user1", 700, base.Add(2*time.Second))
	for _, b := range []*models.Bid{&b1, &b2, &b3} {
		require.NoError(t, repo.RecordBid(ctx, b))
	}
	require.NoError(t, repo.TransitionBid(ctx, "b2", models.BidActive, models.BidWithdrawn))

	t.Run("active_only", func(t *testing.T) {
		active, err := repo.ListActiveBids(ctx, "prop1")
		require.NoError(t, err)
		require.Len(t, active, 1)
		require.Equal(t, "b1", active[0].ID)
		require.Equal(t, "Alice", active[0].Bidder.Name)
	})

	t.Run("by_bidder_on_property", func(t *testing.T) {
		mine, err := repo.ListActiveBidsByBidder(ctx, "prop1", "user1")
		require.NoError(t, err)
		require.Len(t, mine, 1)

		none, err := repo.ListActiveBidsByBidder(ctx, "prop1", "user2")
		require.NoError(t, err)
		require.Empty(t, none)
	})

	t.Run("history_newest_first", func(t *testing.T) {
		history, err := repo.ListBidsByBidder(ctx, "user1")
		require.NoError(t, err)
		require.Len(t, history, 2)
		require.Equal(t, "b3", history[0].ID)
		require.Equal(t, "b1", history[1].ID)
		require.NotNil(t, history[0].Property)
	})

	t.Run("unknown_property_is_empty", func(t *testing.T) {
		bids, err := repo.ListActiveBids(ctx, "propX")
		require.NoError(t, err)
		require.Empty(t, bids)
	})
}

func TestMemoryRepo_UpdateAndTransition(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t)
	ctx := context.Background()
	b := newBid("b1", "prop1", "user1", 1100, time.Now())
	require.NoError(t, repo.RecordBid(ctx, &b))

	require.NoError(t, repo.UpdateBidAmount(ctx, "b1", decimal.NewFromInt(1500)))
	got, err := repo.GetBid(ctx, "b1")
	require.NoError(t, err)
	require.True(t, got.Amount.Equal(decimal.NewFromInt(1500)))

	require.ErrorIs(t, repo.UpdateBidAmount(ctx, "nope", decimal.NewFromInt(1)), biddingerrors.ErrNotFound)

	require.NoError(t, repo.TransitionBid(ctx, "b1", models.BidActive, models.BidWithdrawn))
	require.ErrorIs(t, repo.TransitionBid(ctx, "b1", models.BidActive, models.BidWithdrawn), biddingerrors.ErrInvalidStateTransition)
	require.ErrorIs(t, repo.UpdateBidAmount(ctx, "b1", decimal.NewFromInt(1600)), biddingerrors.ErrInvalidStateTransition)
}

func TestMemoryRepo_CloseAuction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	setup := func(t *testing.T) *MemoryRepo {
		repo := seededRepo(t)
		for _, b := range []models.Bid{
			newBid("w", "prop1", "user1", 1500, time.Now()),
			newBid("l", "prop1", "user2", 1200, time.Now()),
			newBid("other", "prop2", "user2", 800, time.Now()),
		} {
			b := b
			require.NoError(t, repo.RecordBid(ctx, &b))
		}
		return repo
	}

	t.Run("winner_selected", func(t *testing.T) {
		repo := setup(t)
		require.NoError(t, repo.CloseAuction(ctx, "prop1", "w"))

		state, err := repo.GetAuctionState(ctx, "prop1")
		require.NoError(t, err)
		require.Equal(t, models.PropertyEnded, state.Status)

		won, _ := repo.GetBid(ctx, "w")
		lost, _ := repo.GetBid(ctx, "l")
		other, _ := repo.GetBid(ctx, "other")
		require.Equal(t, models.BidWon, won.Status)
		require.Equal(t, models.BidWithdrawn, lost.Status)
		require.Equal(t, models.BidActive, other.Status)
	})

	tests := []struct {
		name       string
		propertyID string
		bidID      string
		wantErr    error
	}{
		{name: "unknown_property", propertyID: "propX", bidID: "w", wantErr: biddingerrors.ErrNotFound},
		{name: "bid_on_other_property", propertyID: "prop1", bidID: "other", wantErr: biddingerrors.ErrInvalidBid},
		{name: "unknown_bid", propertyID: "prop1", bidID: "nope", wantErr: biddingerrors.ErrInvalidBid},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			repo := setup(t)
			require.ErrorIs(t, repo.CloseAuction(ctx, tc.propertyID, tc.bidID), tc.wantErr)

			// nothing changed
			state, err := repo.GetAuctionState(ctx, "prop1")
			require.NoError(t, err)
			require.Equal(t, models.PropertyActive, state.Status)
			active, err := repo.ListActiveBids(ctx, "prop1")
			require.NoError(t, err)
			require.Len(t, active, 2)
		})
	}

	t.Run("second_close_rejected", func(t *testing.T) {
		repo := setup(t)
		require.NoError(t, repo.CloseAuction(ctx, "prop1", "w"))
		require.ErrorIs(t, repo.CloseAuction(ctx, "prop1", "l"), biddingerrors.ErrInvalidStateTransition)
	})

	t.Run("withdrawn_bid_cannot_win", func(t *testing.T) {
		repo := setup(t)
		require.NoError(t, repo.TransitionBid(ctx, "l", models.BidActive, models.BidWithdrawn))
		require.ErrorIs(t, repo.CloseAuction(ctx, "prop1", "l"), biddingerrors.ErrInvalidStateTransition)
	})

	t.Run("concurrent_close_single_winner", func(t *testing.T) {
		repo := setup(t)
		var wg sync.WaitGroup
		var mu sync.Mutex
		successes := 0
		for _, id := range []string{"w", "l", "w", "l"} {
			wg.Add(1)
			id := id
			go func() {
				defer wg.Done()
				if repo.CloseAuction(ctx, "prop1", id) == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		require.Equal(t, 1, successes)
	})
}
