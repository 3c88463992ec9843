package mysql

import (
	"context"

	"toolshare-backend/internal/domain/borrow"
	"toolshare-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Borrows: &BorrowRepository{db: tx},
		Items:   &ItemRepository{db: tx},
		Users:   &UserRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinBorrowTx(ctx context.Context, requestID string, fn func(r uow.Repos, b *borrow.BorrowRequest) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the request row up-front to prevent races
		b, err := r.Borrows.GetByRequestIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		return fn(r, b)
	})
}
