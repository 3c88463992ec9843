package item

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("item not found")

type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "AVAILABLE"
	StatusUnavailable AvailabilityStatus = "UNAVAILABLE"
	// StatusRemoved is set by the catalog only and is terminal.
	StatusRemoved AvailabilityStatus = "REMOVED"
)

// Table: items (owned by the catalog; only availability_status is written here)
type Item struct {
	ID                 uint64             `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ItemID             string             `gorm:"column:item_id;size:32;not null;uniqueIndex:ux_items_item_id" json:"item_id"`
	OwnerID            string             `gorm:"column:owner_id;size:32;not null;index" json:"owner_id"`
	Name               string             `gorm:"column:name;size:200" json:"name"`
	AvailabilityStatus AvailabilityStatus `gorm:"column:availability_status;size:20;not null;default:'AVAILABLE'" json:"availability_status"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Item) TableName() string { return "items" }
