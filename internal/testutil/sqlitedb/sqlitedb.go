// Package sqlitedb opens throwaway in-memory databases carrying the domain schema.
package sqlitedb

import (
	"testing"

	"toolshare-backend/internal/domain/borrow"
	"toolshare-backend/internal/domain/item"
	"toolshare-backend/internal/domain/user"
	"toolshare-backend/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&borrow.BorrowRequest{}, &item.Item{}, &user.User{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func SeedUser(t testing.TB, db *gorm.DB, banned bool) *user.User {
	t.Helper()
	u := &user.User{UserID: id.NewID32(), Name: "user", Banned: banned, Verified: true}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedItem(t testing.TB, db *gorm.DB, ownerID string, status item.AvailabilityStatus) *item.Item {
	t.Helper()
	it := &item.Item{ItemID: id.NewID32(), OwnerID: ownerID, Name: "tool", AvailabilityStatus: status}
	if err := db.Create(it).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return it
}

func ItemStatus(t testing.TB, db *gorm.DB, itemID string) item.AvailabilityStatus {
	t.Helper()
	var it item.Item
	if err := db.Where("item_id = ?", itemID).First(&it).Error; err != nil {
		t.Fatalf("load item %s: %v", itemID, err)
	}
	return it.AvailabilityStatus
}

func SetItemStatus(t testing.TB, db *gorm.DB, itemID string, status item.AvailabilityStatus) {
	t.Helper()
	if err := db.Model(&item.Item{}).Where("item_id = ?", itemID).Update("availability_status", status).Error; err != nil {
		t.Fatalf("set item status: %v", err)
	}
}

func DeleteItem(t testing.TB, db *gorm.DB, itemID string) {
	t.Helper()
	if err := db.Where("item_id = ?", itemID).Delete(&item.Item{}).Error; err != nil {
		t.Fatalf("delete item: %v", err)
	}
}

func LoadRequest(t testing.TB, db *gorm.DB, requestID string) *borrow.BorrowRequest {
	t.Helper()
	var b borrow.BorrowRequest
	if err := db.Where("request_id = ?", requestID).First(&b).Error; err != nil {
		t.Fatalf("load request %s: %v", requestID, err)
	}
	return &b
}
