package item

import "context"

type Repository interface {
	// Create is used for seeding; the catalog owns item creation.
	Create(ctx context.Context, it *Item) error
	GetByItemID(ctx context.Context, itemID string) (*Item, error)
	GetByItemIDForUpdate(ctx context.Context, itemID string) (*Item, error)
	Save(ctx context.Context, it *Item) error
}
