package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// Table: users (read-only subset of the user directory)
type User struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID    string    `gorm:"column:user_id;size:32;not null;uniqueIndex:ux_users_user_id" json:"user_id"`
	Name      string    `gorm:"column:name;size:120" json:"name"`
	Banned    bool      `gorm:"column:banned;not null;default:false" json:"banned"`
	Verified  bool      `gorm:"column:verified;not null;default:false" json:"verified"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
