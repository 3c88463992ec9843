package mysql

import (
	"context"
	"errors"

	itemDomain "toolshare-backend/internal/domain/item"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) *ItemRepository { return &ItemRepository{db: db} }

func (r *ItemRepository) Create(ctx context.Context, it *itemDomain.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *ItemRepository) Save(ctx context.Context, it *itemDomain.Item) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *ItemRepository) GetByItemID(ctx context.Context, itemID string) (*itemDomain.Item, error) {
	var out itemDomain.Item
	res := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&out)
	return itemOrNotFound(&out, res.Error)
}

func (r *ItemRepository) GetByItemIDForUpdate(ctx context.Context, itemID string) (*itemDomain.Item, error) {
	var out itemDomain.Item
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_id = ?", itemID).
		First(&out)
	return itemOrNotFound(&out, res.Error)
}

func itemOrNotFound(it *itemDomain.Item, err error) (*itemDomain.Item, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, itemDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}
