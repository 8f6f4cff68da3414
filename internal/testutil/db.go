// Package testutil provides database fixtures shared by package tests
package testutil

import (
	"fmt"
	"testing"
	"time"

	"sublease-marketplace/internal/models"
	"sublease-marketplace/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an isolated in-memory sqlite database with the schema migrated
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", utils.GenerateID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.PropertyImage{},
		&models.Bid{},
		&models.Review{},
	))
	return db
}

// CreateUser inserts a user with the given id and name
func CreateUser(t testing.TB, db *gorm.DB, id, name string) models.User {
	t.Helper()
	u := models.User{
		ID:           id,
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", id),
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreateProperty inserts an active property owned by ownerID
func CreateProperty(t testing.TB, db *gorm.DB, id, ownerID string, minPrice int64, mutate ...func(*models.Property)) models.Property {
	t.Helper()
	p := models.Property{
		ID:       id,
		UserID:   ownerID,
		Title:    "Listing " + id,
		Address:  "1 Main St",
		MinPrice: decimal.NewFromInt(minPrice),
		Status:   models.PropertyActive,
	}
	for _, m := range mutate {
		m(&p)
	}
	require.NoError(t, db.Omit("Owner", "Images", "Bids").Create(&p).Error)
	return p
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
