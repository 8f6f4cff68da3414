package bidding

import (
	"sort"

	"sublease-marketplace/internal/models"

	"github.com/shopspring/decimal"
)

// OrderBook is the ranked view of a property's active bids
type OrderBook struct {
	PropertyID string
	Bids       []models.Bid
	HighestBid decimal.Decimal
	BidCount   int
}

// BuildOrderBook ranks active bids by amount (highest first), most recent first on ties.
// With a filter, only dated bids overlapping it are kept. The input slice is not modified.
func BuildOrderBook(propertyID string, bids []models.Bid, filter *models.Interval) OrderBook {
	ranked := make([]models.Bid, 0, len(bids))
	for _, b := range bids {
		if b.Status != models.BidActive {
			continue
		}
		if filter != nil {
			w, ok := b.Window()
			if !ok || !w.Overlaps(*filter) {
				continue
			}
		}
		ranked = append(ranked, b)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if c := ranked[i].Amount.Cmp(ranked[j].Amount); c != 0 {
			return c > 0
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})

	book := OrderBook{
		PropertyID: propertyID,
		Bids:       ranked,
		HighestBid: decimal.Zero,
		BidCount:   len(ranked),
	}
	if len(ranked) > 0 {
		book.HighestBid = ranked[0].Amount
	}
	return book
}
