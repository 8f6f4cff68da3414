package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(hour int) time.Time {
	return time.Date(2030, 1, 1, hour, 0, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
	base := Interval{Start: at(10), End: at(12)}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{name: "partial_overlap_right", other: Interval{Start: at(11), End: at(13)}, want: true},
		{name: "partial_overlap_left", other: Interval{Start: at(9), End: at(11)}, want: true},
		{name: "contained", other: Interval{Start: at(10), End: at(11)}, want: true},
		{name: "identical", other: base, want: true},
		{name: "touching_end", other: Interval{Start: at(12), End: at(14)}, want: false},
		{name: "touching_start", other: Interval{Start: at(8), End: at(10)}, want: false},
		{name: "disjoint", other: Interval{Start: at(15), End: at(16)}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, base.Overlaps(tc.other))
			require.Equal(t, tc.want, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestInterval_Covers(t *testing.T) {
	lease := Interval{Start: at(0), End: at(20)}
	require.True(t, lease.Covers(Interval{Start: at(0), End: at(20)}))
	require.True(t, lease.Covers(Interval{Start: at(5), End: at(6)}))
	require.False(t, lease.Covers(Interval{Start: at(5), End: at(21)}))
}

func TestAuctionState_AcceptsBids(t *testing.T) {
	now := at(12)
	past := at(11)
	future := at(13)

	require.True(t, AuctionState{Status: PropertyActive}.AcceptsBids(now))
	require.True(t, AuctionState{Status: PropertyActive, AuctionEndAt: &future}.AcceptsBids(now))
	require.False(t, AuctionState{Status: PropertyActive, AuctionEndAt: &past}.AcceptsBids(now))
	require.False(t, AuctionState{Status: PropertyActive, AuctionEndAt: &now}.AcceptsBids(now))
	require.False(t, AuctionState{Status: PropertyEnded}.AcceptsBids(now))
	require.False(t, AuctionState{Status: PropertyRented}.AcceptsBids(now))
}

func TestBid_Window(t *testing.T) {
	start, end := at(1), at(2)

	w, ok := Bid{StartDate: &start, EndDate: &end}.Window()
	require.True(t, ok)
	require.Equal(t, Interval{Start: start, End: end}, w)

	_, ok = Bid{StartDate: &start}.Window()
	require.False(t, ok)
}
