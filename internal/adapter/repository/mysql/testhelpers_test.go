package mysql

import (
	"context"
	"testing"
	"time"

	borrowDomain "toolshare-backend/internal/domain/borrow"
	itemDomain "toolshare-backend/internal/domain/item"
	userDomain "toolshare-backend/internal/domain/user"
	"toolshare-backend/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the domain schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
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

	if err := db.AutoMigrate(&borrowDomain.BorrowRequest{}, &itemDomain.Item{}, &userDomain.User{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeRequest(borrowerID, lenderID, itemID string, status borrowDomain.Status, end time.Time) *borrowDomain.BorrowRequest {
	now := time.Now().UTC()
	end = end.UTC()
	return &borrowDomain.BorrowRequest{
		RequestID:       id.NewID32(),
		BorrowerID:      borrowerID,
		LenderID:        lenderID,
		ItemID:          itemID,
		StartDate:       end.AddDate(0, 0, -3),
		EndDate:         end,
		Status:          status,
		RequestDate:     now,
		StatusUpdatedAt: now,
	}
}

func seedItem(t *testing.T, db *gorm.DB, ownerID string, status itemDomain.AvailabilityStatus) *itemDomain.Item {
	t.Helper()
	it := &itemDomain.Item{ItemID: id.NewID32(), OwnerID: ownerID, Name: "drill", AvailabilityStatus: status}
	if err := NewItemRepository(db).Create(context.Background(), it); err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return it
}
