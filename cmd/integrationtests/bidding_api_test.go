package integrationtests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuctionLifecycle(t *testing.T) {
	router := SetupTestRouter(t)

	ownerID, ownerToken := RegisterUser(t, router, "owner@example.com", "Olivia")
	aliceID, aliceToken := RegisterUser(t, router, "alice@example.com", "Alice")
	bobID, bobToken := RegisterUser(t, router, "bob@example.com", "Bob")

	propertyID := CreateListing(t, router, ownerToken, "Studio near campus", "1000", nil)
	bidsURL := "/api/properties/" + propertyID + "/bids"

	// anonymous bids are rejected before reaching the ledger
	_, w := ExecuteRequestAndParse(t, router, http.MethodPost, bidsURL, "", `{"amount":1200}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, bidsURL, aliceToken, `{"amount":900}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "bid amount below minimum", resp["message"])
	require.Contains(t, resp["error"], "1000.00")

	resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, bidsURL, aliceToken, `{"amount":1200}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	aliceBid := resp["data"].(map[string]any)
	require.Equal(t, aliceID, aliceBid["bidder_id"])
	require.Equal(t, "1200", aliceBid["amount"])
	require.Nil(t, aliceBid["start_date"])

	// an undated re-bid raises the existing bid instead of adding a row
	resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, bidsURL, aliceToken, `{"amount":"1300"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "bid updated successfully", resp["message"])
	require.Equal(t, aliceBid["id"], resp["data"].(map[string]any)["id"])
	require.Equal(t, "1300", resp["data"].(map[string]any)["amount"])

	resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, bidsURL, bobToken,
		`{"amount":1500,"start_date":"2030-01-01","end_date":"2030-02-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bobBid := resp["data"].(map[string]any)
	require.Equal(t, "2030-01-01T00:00:00Z", bobBid["start_date"])

	resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, bidsURL, bobToken,
		`{"amount":1600,"start_date":"2030-01-15","end_date":"2030-03-01"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "bid overlaps an existing bid", resp["message"])

	// touching windows do not overlap
	resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, bidsURL, bobToken,
		`{"amount":1100,"start_date":"2030-02-01","end_date":"2030-03-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bobSecond := resp["data"].(map[string]any)

	_, w = ExecuteRequestAndParse(t, router, http.MethodPost, bidsURL, bobToken,
		`{"amount":1100,"start_date":"2030-04-01"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp, w = ExecuteRequestAndParse(t, router, http.MethodGet, bidsURL, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	book := resp["data"].(map[string]any)
	require.EqualValues(t, 3, book["bid_count"])
	require.Equal(t, "1500", book["highest_bid"])
	ranked := book["bids"].([]any)
	require.Equal(t, bobBid["id"], ranked[0].(map[string]any)["id"])
	require.Equal(t, aliceBid["id"], ranked[1].(map[string]any)["id"])

	resp, w = ExecuteRequestAndParse(t, router, http.MethodGet, bidsURL+"?start_date=2030-02-10&end_date=2030-02-20", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, resp["data"].(map[string]any)["bid_count"])

	// bob withdraws his second bid; withdrawing twice is an invalid transition
	withdrawURL := "/api/bids/" + bobSecond["id"].(string) + "/withdraw"
	_, w = ExecuteRequestAndParse(t, router, http.MethodPost, withdrawURL, aliceToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, withdrawURL, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "withdrawn", resp["data"].(map[string]any)["status"])
	_, w = ExecuteRequestAndParse(t, router, http.MethodPost, withdrawURL, bobToken, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	selectURL := "/api/properties/" + propertyID + "/select-winner"
	_, w = ExecuteRequestAndParse(t, router, http.MethodPost, selectURL, aliceToken, map[string]string{"bid_id": bobBid["id"].(string)})
	require.Equal(t, http.StatusForbidden, w.Code)

	resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, selectURL, ownerToken, map[string]string{"bid_id": bobBid["id"].(string)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "won", resp["data"].(map[string]any)["status"])

	_, w = ExecuteRequestAndParse(t, router, http.MethodPost, selectURL, ownerToken, map[string]string{"bid_id": aliceBid["id"].(string)})
	require.Equal(t, http.StatusConflict, w.Code)

	resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, bidsURL, aliceToken, `{"amount":5000}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid property or auction ended", resp["message"])

	resp, w = ExecuteRequestAndParse(t, router, http.MethodGet, "/api/properties/"+propertyID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ended", resp["data"].(map[string]any)["status"])

	resp, w = ExecuteRequestAndParse(t, router, http.MethodGet, "/api/users/"+bobID+"/bids", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := resp["data"].(map[string]any)
	require.Len(t, history["won_bids"].([]any), 1)
	require.Len(t, history["lost_bids"].([]any), 1)
	require.Empty(t, history["active_bids"].([]any))

	resp, w = ExecuteRequestAndParse(t, router, http.MethodGet, "/api/users/"+aliceID+"/bids", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history = resp["data"].(map[string]any)
	require.Len(t, history["lost_bids"].([]any), 1)
	require.Empty(t, history["won_bids"].([]any))

	_, w = ExecuteRequestAndParse(t, router, http.MethodGet, "/api/users/"+aliceID+"/bids", bobToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// the winning tenant reviews the owner
	resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, "/api/properties/"+propertyID+"/reviews", bobToken,
		map[string]any{"rating": 5, "comment": "Smooth handover"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, ownerID, resp["data"].(map[string]any)["reviewed_id"])

	resp, w = ExecuteRequestAndParse(t, router, http.MethodGet, "/api/users/"+ownerID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reviews := resp["data"].(map[string]any)["received_reviews"].([]any)
	require.Len(t, reviews, 1)

	resp, w = ExecuteRequestAndParse(t, router, http.MethodGet, "/api/reviews/"+propertyID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)
}

func TestBiddingEdgeCases(t *testing.T) {
	router := SetupTestRouter(t)
	_, ownerToken := RegisterUser(t, router, "owner@example.com", "Olivia")
	_, aliceToken := RegisterUser(t, router, "alice@example.com", "Alice")

	expired := CreateListing(t, router, ownerToken, "Expired", "100", map[string]string{"auction_end_date": "2001-01-01"})
	open := CreateListing(t, router, ownerToken, "Open", "100", nil)

	tests := []struct {
		name       string
		url        string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"unknown_property", "/api/properties/missing/bids", `{"amount":500}`, http.StatusBadRequest, "invalid property or auction ended"},
		{"auction_past_end_date", "/api/properties/" + expired + "/bids", `{"amount":500}`, http.StatusBadRequest, "invalid property or auction ended"},
		{"malformed_json", "/api/properties/" + open + "/bids", `{amount: 5}`, http.StatusBadRequest, "invalid request payload"},
		{"bad_date", "/api/properties/" + open + "/bids", `{"amount":500,"start_date":"next week","end_date":"2030-01-01"}`, http.StatusBadRequest, "invalid date format"},
		{"start_in_past", "/api/properties/" + open + "/bids", `{"amount":500,"start_date":"2001-01-01","end_date":"2001-02-01"}`, http.StatusBadRequest, "start date must be in the future"},
		{"end_before_start", "/api/properties/" + open + "/bids", `{"amount":500,"start_date":"2030-02-01","end_date":"2030-01-01"}`, http.StatusBadRequest, "end date must be after start date"},
		{"amount_beyond_storable_maximum", "/api/properties/" + open + "/bids", `{"amount":10000000000}`, http.StatusBadRequest, "validation failed"},
		{"exact_minimum", "/api/properties/" + open + "/bids", `{"amount":100}`, http.StatusCreated, "bid submitted successfully"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, tt.url, aliceToken, tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			require.Equal(t, tt.wantMsg, resp["message"])
		})
	}

	resp, w := ExecuteRequestAndParse(t, router, http.MethodGet, "/api/properties/missing/bids", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.True(t, strings.HasPrefix(resp["message"].(string), "resource not found"))
}
