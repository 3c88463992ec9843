package borrowmock

import (
	"context"
	"time"

	domain "toolshare-backend/internal/domain/borrow"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Getters with no func return context.Canceled; writers default to a nil error.
type Repo struct {
	CreateFn                  func(ctx context.Context, b *domain.BorrowRequest) error
	SaveFn                    func(ctx context.Context, b *domain.BorrowRequest) error
	GetByRequestIDFn          func(ctx context.Context, requestID string) (*domain.BorrowRequest, error)
	GetByRequestIDForUpdateFn func(ctx context.Context, requestID string) (*domain.BorrowRequest, error)
	ListByBorrowerFn          func(ctx context.Context, borrowerID string) ([]domain.BorrowRequest, error)
	ListByLenderFn            func(ctx context.Context, lenderID string) ([]domain.BorrowRequest, error)
	ListByStatusFn            func(ctx context.Context, status domain.Status) ([]domain.BorrowRequest, error)
	CountByStatusFn           func(ctx context.Context, status domain.Status) (int64, error)
	ExistsActiveForItemFn     func(ctx context.Context, itemID string, statuses []domain.Status) (bool, error)
	FindOverdueForBorrowerFn  func(ctx context.Context, borrowerID string, now time.Time) ([]domain.BorrowRequest, error)
}

func (m *Repo) Create(ctx context.Context, b *domain.BorrowRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, b *domain.BorrowRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.BorrowRequest, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.BorrowRequest, error) {
	if m.GetByRequestIDForUpdateFn != nil {
		return m.GetByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByBorrower(ctx context.Context, borrowerID string) ([]domain.BorrowRequest, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLender(ctx context.Context, lenderID string) ([]domain.BorrowRequest, error) {
	if m.ListByLenderFn != nil {
		return m.ListByLenderFn(ctx, lenderID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.BorrowRequest, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status)
	}
	return nil, context.Canceled
}

func (m *Repo) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, status)
	}
	return 0, context.Canceled
}

func (m *Repo) ExistsActiveForItem(ctx context.Context, itemID string, statuses []domain.Status) (bool, error) {
	if m.ExistsActiveForItemFn != nil {
		return m.ExistsActiveForItemFn(ctx, itemID, statuses)
	}
	return false, context.Canceled
}

func (m *Repo) FindOverdueForBorrower(ctx context.Context, borrowerID string, now time.Time) ([]domain.BorrowRequest, error) {
	if m.FindOverdueForBorrowerFn != nil {
		return m.FindOverdueForBorrowerFn(ctx, borrowerID, now)
	}
	return nil, context.Canceled
}
