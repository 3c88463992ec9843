package report

import (
	"context"
	"time"

	"toolshare-backend/internal/domain/borrow"
	ucBorrow "toolshare-backend/internal/usecase/borrow"
)

type StatsDTO struct {
	ActiveBorrows   int64 `json:"active_borrows"`
	PendingRequests int64 `json:"pending_requests"`
}

// Usecase backs the admin dashboard. Overdue is computed at query time;
// nothing persists an overdue flag.
type Usecase struct {
	borrows borrow.Repository
	now     func() time.Time
}

func NewUsecase(borrows borrow.Repository) *Usecase {
	return &Usecase{borrows: borrows, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Stats(ctx context.Context) (*StatsDTO, error) {
	active, err := u.borrows.CountByStatus(ctx, borrow.StatusApproved)
	if err != nil {
		return nil, err
	}
	pending, err := u.borrows.CountByStatus(ctx, borrow.StatusPending)
	if err != nil {
		return nil, err
	}
	return &StatsDTO{ActiveBorrows: active, PendingRequests: pending}, nil
}

func (u *Usecase) ListOverdue(ctx context.Context) ([]ucBorrow.BorrowRequestDTO, error) {
	approved, err := u.borrows.ListByStatus(ctx, borrow.StatusApproved)
	if err != nil {
		return nil, err
	}
	now := u.now()
	overdue := approved[:0]
	for _, b := range approved {
		if b.IsOverdue(now) {
			overdue = append(overdue, b)
		}
	}
	return ucBorrow.ToDTOs(overdue), nil
}
