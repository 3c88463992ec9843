package uowmock

import (
	"context"
	"errors"

	"toolshare-backend/internal/domain/borrow"
	"toolshare-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinBorrowTxFn func(ctx context.Context, requestID string, fn func(r uow.Repos, b *borrow.BorrowRequest) error) error
}

// Passthrough returns a UoW that runs fn directly against r, locking the
// request through r.Borrows.GetByRequestIDForUpdate.
func Passthrough(r uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error { return fn(r) },
		WithinBorrowTxFn: func(ctx context.Context, requestID string, fn func(uow.Repos, *borrow.BorrowRequest) error) error {
			b, err := r.Borrows.GetByRequestIDForUpdate(ctx, requestID)
			if err != nil {
				return err
			}
			return fn(r, b)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinBorrowTx(ctx context.Context, requestID string, fn func(r uow.Repos, b *borrow.BorrowRequest) error) error {
	if m.WithinBorrowTxFn != nil {
		return m.WithinBorrowTxFn(ctx, requestID, fn)
	}
	return errUnimplemented
}
