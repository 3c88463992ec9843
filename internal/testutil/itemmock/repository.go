package itemmock

import (
	"context"

	domain "toolshare-backend/internal/domain/item"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn               func(ctx context.Context, it *domain.Item) error
	GetByItemIDFn          func(ctx context.Context, itemID string) (*domain.Item, error)
	GetByItemIDForUpdateFn func(ctx context.Context, itemID string) (*domain.Item, error)
	SaveFn                 func(ctx context.Context, it *domain.Item) error
}

func (m *Repo) Create(ctx context.Context, it *domain.Item) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, it)
	}
	return nil
}

func (m *Repo) GetByItemID(ctx context.Context, itemID string) (*domain.Item, error) {
	if m.GetByItemIDFn != nil {
		return m.GetByItemIDFn(ctx, itemID)
	}
	return nil, context.Canceled
}

// Falls back to GetByItemIDFn so tests only need to stub one lookup.
func (m *Repo) GetByItemIDForUpdate(ctx context.Context, itemID string) (*domain.Item, error) {
	if m.GetByItemIDForUpdateFn != nil {
		return m.GetByItemIDForUpdateFn(ctx, itemID)
	}
	return m.GetByItemID(ctx, itemID)
}

func (m *Repo) Save(ctx context.Context, it *domain.Item) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, it)
	}
	return nil
}
