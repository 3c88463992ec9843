package usermock

import (
	"context"

	domain "toolshare-backend/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	GetByUserIDFn func(ctx context.Context, userID string) (*domain.User, error)
	CreateFn      func(ctx context.Context, u *domain.User) error
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
