package uow

import (
	"context"

	"toolshare-backend/internal/domain/borrow"
	"toolshare-backend/internal/domain/item"
	"toolshare-backend/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Borrows borrow.Repository
	Items   item.Repository
	Users   user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the borrow request first, then pass it in
	WithinBorrowTx(ctx context.Context, requestID string, fn func(r Repos, b *borrow.BorrowRequest) error) error
}
