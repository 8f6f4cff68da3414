package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	account "sublease-marketplace/internal/accountService"
	"sublease-marketplace/internal/auth"
	bidding "sublease-marketplace/internal/biddingService"
	"sublease-marketplace/internal/config"
	listing "sublease-marketplace/internal/listingService"
	"sublease-marketplace/internal/metrics"
	"sublease-marketplace/internal/repository"
	review "sublease-marketplace/internal/reviewService"
	"sublease-marketplace/internal/server"
	"sublease-marketplace/internal/storage"
	"sublease-marketplace/utils"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("Failed to load configuration", map[string]any{"error": err.Error()})
	}
	utils.Configure(cfg.Log.Level, cfg.Log.Format)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(cfg.Database)
	if err != nil {
		utils.Fatal("Failed to open database", map[string]any{"driver": cfg.Database.Driver, "error": err.Error()})
	}
	defer func() {
		if err := repository.Close(db); err != nil {
			utils.Warn("Failed to close database", map[string]any{"error": err.Error()})
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			utils.Fatal("Failed to migrate schema", map[string]any{"error": err.Error()})
		}
		utils.Info("Schema auto-migrated", nil)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWT)
	if err != nil {
		utils.Fatal("Failed to create token issuer", map[string]any{"error": err.Error()})
	}

	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		utils.Fatal("Failed to create image store", map[string]any{"driver": cfg.Storage.Driver, "error": err.Error()})
	}

	m := metrics.New("sublease")

	users := repository.NewGormUserRepo(db)
	properties := repository.NewGormPropertyRepo(db)
	reviews := repository.NewGormReviewRepo(db)

	deps := server.Dependencies{
		Bidding:  bidding.NewBiddingService(repository.NewGormAuctionRepo(db), bidding.WithRecorder(m)),
		Listings: listing.NewListingService(properties, images, cfg.Upload),
		Accounts: account.NewAccountService(users, properties, tokens, images, cfg.Upload.MaxProfileImageBytes),
		Reviews:  review.NewReviewService(reviews, properties),
		Tokens:   tokens,
		Metrics:  m,
		HTTP:     cfg.HTTP,
		Health: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if local, ok := images.(*storage.LocalStore); ok {
		deps.UploadDir = local.Root()
		deps.UploadURL = cfg.Storage.PublicBaseURL
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           server.SetupRouter(deps),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.Info("Starting sublease marketplace server", map[string]any{
			"addr":    srv.Addr,
			"env":     cfg.App.Env,
			"db":      cfg.Database.Driver,
			"storage": cfg.Storage.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("Failed to start server", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("Shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("Graceful shutdown failed", map[string]any{"error": err.Error()})
	}
}
