package handler

import (
	"context"
	"net/http"

	bidding "sublease-marketplace/internal/biddingService"
	"sublease-marketplace/internal/models"
	"sublease-marketplace/services/helpers"
	"sublease-marketplace/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_bidding_handler.go -package=handler

type BiddingServiceInterface interface {
	SubmitBid(ctx context.Context, in bidding.SubmitBidInput) (bidding.SubmitBidResult, error)
	WithdrawBid(ctx context.Context, bidID, callerID string) (models.Bid, error)
	SelectWinner(ctx context.Context, propertyID, bidID, callerID string) (models.Bid, error)
	GetOrderBook(ctx context.Context, propertyID, startDate, endDate string) (bidding.OrderBook, error)
	GetUserBids(ctx context.Context, userID, callerID string) (bidding.BidHistory, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// SubmitBidHandler handles POST /api/properties/:id/bids
func (h *BiddingHandler) SubmitBidHandler(c *gin.Context) {
	propertyID := c.Param("id")
	callerID := helpers.CallerID(c)

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SubmitBidHandler", err)
		return
	}

	result, err := h.service.SubmitBid(c.Request.Context(), bidding.SubmitBidInput{
		PropertyID: propertyID,
		BidderID:   callerID,
		Amount:     *req.Amount,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		helpers.HandleServiceError(c, "SubmitBidHandler", err, map[string]any{
			"property_id": propertyID,
			"user_id":     callerID,
			"amount":      req.Amount.String(),
		})
		return
	}

	status, message := http.StatusCreated, "bid submitted successfully"
	if !result.Created {
		status, message = http.StatusOK, "bid updated successfully"
	}

	utils.JSONResponse(c, status, helpers.NewBidResponse(result.Bid), message)
	helpers.LogSuccess("SubmitBidHandler", message, map[string]any{
		"bid_id":      result.Bid.ID,
		"property_id": propertyID,
		"user_id":     callerID,
		"amount":      result.Bid.Amount.String(),
	})
}

// GetOrderBookHandler handles GET /api/properties/:id/bids
func (h *BiddingHandler) GetOrderBookHandler(c *gin.Context) {
	propertyID := c.Param("id")
	startDate, endDate := c.Query("start_date"), c.Query("end_date")

	book, err := h.service.GetOrderBook(c.Request.Context(), propertyID, startDate, endDate)
	if err != nil {
		helpers.HandleServiceError(c, "GetOrderBookHandler", err, map[string]any{"property_id": propertyID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewOrderBookResponse(book), "order book retrieved successfully")
	helpers.LogSuccess("GetOrderBookHandler", "order book retrieved successfully", map[string]any{
		"property_id": propertyID,
		"count":       book.BidCount,
	})
}

// WithdrawBidHandler handles POST /api/bids/:id/withdraw
func (h *BiddingHandler) WithdrawBidHandler(c *gin.Context) {
	bidID := c.Param("id")
	callerID := helpers.CallerID(c)

	bid, err := h.service.WithdrawBid(c.Request.Context(), bidID, callerID)
	if err != nil {
		helpers.HandleServiceError(c, "WithdrawBidHandler", err, map[string]any{"bid_id": bidID, "user_id": callerID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "bid withdrawn successfully")
	helpers.LogSuccess("WithdrawBidHandler", "bid withdrawn successfully", map[string]any{
		"bid_id":  bidID,
		"user_id": callerID,
	})
}

// SelectWinnerHandler handles POST /api/properties/:id/select-winner
func (h *BiddingHandler) SelectWinnerHandler(c *gin.Context) {
	propertyID := c.Param("id")
	callerID := helpers.CallerID(c)

	var req helpers.SelectWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SelectWinnerHandler", err)
		return
	}

	bid, err := h.service.SelectWinner(c.Request.Context(), propertyID, req.BidID, callerID)
	if err != nil {
		helpers.HandleServiceError(c, "SelectWinnerHandler", err, map[string]any{
			"property_id": propertyID,
			"bid_id":      req.BidID,
			"user_id":     callerID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "winner selected successfully")
	helpers.LogSuccess("SelectWinnerHandler", "winner selected successfully", map[string]any{
		"property_id": propertyID,
		"bid_id":      bid.ID,
		"amount":      bid.Amount.String(),
	})
}

// GetUserBidsHandler handles GET /api/users/:id/bids
func (h *BiddingHandler) GetUserBidsHandler(c *gin.Context) {
	userID := c.Param("id")
	callerID := helpers.CallerID(c)

	history, err := h.service.GetUserBids(c.Request.Context(), userID, callerID)
	if err != nil {
		helpers.HandleServiceError(c, "GetUserBidsHandler", err, map[string]any{"user_id": userID, "caller_id": callerID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidHistoryResponse(history), "bids retrieved successfully")
	helpers.LogSuccess("GetUserBidsHandler", "bids retrieved successfully", map[string]any{
		"user_id": userID,
		"active":  len(history.Active),
		"won":     len(history.Won),
		"lost":    len(history.Lost),
	})
}
