package review

import (
	"context"
	"testing"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/repository"
	"sublease-marketplace/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		propertyID string
		reviewerID string
		rating     int
		wantErr    error
	}{
		{name: "valid", propertyID: "p1", reviewerID: "guest", rating: 4},
		{name: "rating_too_low", propertyID: "p1", reviewerID: "guest", rating: 0, wantErr: biddingerrors.ErrValidation},
		{name: "rating_too_high", propertyID: "p1", reviewerID: "guest", rating: 6, wantErr: biddingerrors.ErrValidation},
		{name: "unknown_property", propertyID: "nope", reviewerID: "guest", rating: 3, wantErr: biddingerrors.ErrNotFound},
		{name: "own_listing", propertyID: "p1", reviewerID: "owner", rating: 5, wantErr: biddingerrors.ErrForbidden},
		{name: "anonymous", propertyID: "p1", reviewerID: "", rating: 5, wantErr: biddingerrors.ErrUnauthenticated},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			db := testutil.NewTestDB(t)
			testutil.CreateUser(t, db, "owner", "Owner")
			testutil.CreateUser(t, db, "guest", "Guest")
			testutil.CreateProperty(t, db, "p1", "owner", 100)
			svc := NewReviewService(repository.NewGormReviewRepo(db), repository.NewGormPropertyRepo(db))

			review, err := svc.CreateReview(ctx, tc.propertyID, tc.reviewerID, tc.rating, "  lovely place ")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "owner", review.ReviewedID)
			require.Equal(t, "lovely place", review.Comment)

			listed, err := svc.ListForProperty(ctx, "p1")
			require.NoError(t, err)
			require.Len(t, listed, 1)
			require.Equal(t, "Guest", listed[0].Reviewer.Name)
		})
	}
}

func TestListForProperty(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, "owner", "Owner")
	testutil.CreateProperty(t, db, "p1", "owner", 100)
	svc := NewReviewService(repository.NewGormReviewRepo(db), repository.NewGormPropertyRepo(db))

	reviews, err := svc.ListForProperty(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, reviews)
	require.Empty(t, reviews)

	_, err = svc.ListForProperty(ctx, "missing")
	require.ErrorIs(t, err, biddingerrors.ErrNotFound)
}
