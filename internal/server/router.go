package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sublease-marketplace/internal/config"
	"sublease-marketplace/internal/metrics"
	accounthandler "sublease-marketplace/services/account/handler"
	biddinghandler "sublease-marketplace/services/bidding/handler"
	"sublease-marketplace/services/helpers"
	listinghandler "sublease-marketplace/services/listing/handler"
	reviewhandler "sublease-marketplace/services/review/handler"
	"sublease-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services and infrastructure the router exposes
type Dependencies struct {
	Bidding  biddinghandler.BiddingServiceInterface
	Listings listinghandler.ListingServiceInterface
	Accounts accounthandler.AccountServiceInterface
	Reviews  reviewhandler.ReviewServiceInterface
	Tokens   TokenVerifier
	Metrics  *metrics.Metrics
	HTTP     config.HTTPConfig

	// Health reports whether the backing store is reachable; nil means always healthy
	Health func(ctx context.Context) error

	// UploadDir is served at UploadURL when images are stored on local disk
	UploadDir string
	UploadURL string
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(deps Dependencies) *gin.Engine {
	helpers.SetupValidator()

	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery()) // recover from panics
	router.Use(RequestIDMiddleware)
	router.Use(RequestLoggerMiddleware) // custom request logging
	if deps.Metrics != nil {
		router.Use(MetricsMiddleware(deps.Metrics))
	}
	router.Use(CORSMiddleware(deps.HTTP.CORSAllowOrigins))
	router.Use(BodyLimitMiddleware(deps.HTTP.MaxBodySize))

	requireAuth := AuthMiddleware(deps.Tokens)
	optionalAuth := OptionalAuthMiddleware(deps.Tokens)

	biddingHandler := biddinghandler.NewBiddingHandler(deps.Bidding)
	listingHandler := listinghandler.NewListingHandler(deps.Listings)
	accountHandler := accounthandler.NewAccountHandler(deps.Accounts)
	reviewHandler := reviewhandler.NewReviewHandler(deps.Reviews)

	router.GET("/health", healthHandler(deps.Health))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if deps.UploadDir != "" && deps.UploadURL != "" {
		router.Static(deps.UploadURL, deps.UploadDir)
	}

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", accountHandler.RegisterHandler)
		authGroup.POST("/login", accountHandler.LoginHandler)
	}

	properties := api.Group("/properties")
	{
		properties.GET("", listingHandler.ListPropertiesHandler)
		properties.POST("", requireAuth, listingHandler.CreatePropertyHandler)
		properties.GET("/:id", listingHandler.GetPropertyHandler)
		properties.PUT("/:id", requireAuth, listingHandler.UpdatePropertyHandler)
		properties.DELETE("/:id", requireAuth, listingHandler.DeletePropertyHandler)

		properties.POST("/:id/images", requireAuth, listingHandler.AddImagesHandler)
		properties.PUT("/:id/images/reorder", requireAuth, listingHandler.ReorderImagesHandler)
		properties.DELETE("/:id/images/:imageId", requireAuth, listingHandler.DeleteImageHandler)

		properties.GET("/:id/bids", biddingHandler.GetOrderBookHandler)
		properties.POST("/:id/bids", requireAuth, biddingHandler.SubmitBidHandler)
		properties.POST("/:id/select-winner", requireAuth, biddingHandler.SelectWinnerHandler)

		properties.GET("/:id/reviews", reviewHandler.ListReviewsHandler)
		properties.POST("/:id/reviews", requireAuth, reviewHandler.CreateReviewHandler)
	}

	bids := api.Group("/bids")
	{
		bids.POST("/:id/withdraw", requireAuth, biddingHandler.WithdrawBidHandler)
	}

	users := api.Group("/users")
	{
		users.GET("/:id", optionalAuth, accountHandler.GetProfileHandler)
		users.PUT("/:id", requireAuth, accountHandler.UpdateProfileHandler)
		users.POST("/:id/profile-image", requireAuth, accountHandler.UploadProfileImageHandler)
		users.GET("/:id/properties", accountHandler.ListUserPropertiesHandler)
		users.GET("/:id/bids", requireAuth, biddingHandler.GetUserBidsHandler)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("/:id", reviewHandler.ListReviewsHandler)
		reviews.POST("/:id", requireAuth, reviewHandler.CreateReviewHandler)
	}

	api.GET("/search", listingHandler.SearchHandler)

	router.NoRoute(func(c *gin.Context) {
		utils.JSONError(c, http.StatusNotFound, errors.New("route not found"), "resource not found")
	})

	return router
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				utils.Error("Health check failed", map[string]any{"error": err.Error()})
				utils.JSONError(c, http.StatusServiceUnavailable, errors.New("database unavailable"), "unhealthy")
				return
			}
		}
		utils.JSONResponse(c, http.StatusOK, gin.H{"time": time.Now().UTC().Format(time.RFC3339)}, "ok")
	}
}
