package user

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// Create is used for seeding only.
	Create(ctx context.Context, u *User) error
}
