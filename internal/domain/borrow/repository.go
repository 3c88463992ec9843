package borrow

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, b *BorrowRequest) error
	// Save persists b and bumps its version; a stale version yields ErrInvalidState.
	Save(ctx context.Context, b *BorrowRequest) error

	GetByRequestID(ctx context.Context, requestID string) (*BorrowRequest, error)
	// Locks the request row for the rest of the transaction
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*BorrowRequest, error)

	ListByBorrower(ctx context.Context, borrowerID string) ([]BorrowRequest, error)
	ListByLender(ctx context.Context, lenderID string) ([]BorrowRequest, error)
	ListByStatus(ctx context.Context, status Status) ([]BorrowRequest, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)

	ExistsActiveForItem(ctx context.Context, itemID string, statuses []Status) (bool, error)
	// Every APPROVED request of the borrower whose end date is before now
	FindOverdueForBorrower(ctx context.Context, borrowerID string, now time.Time) ([]BorrowRequest, error)
}
