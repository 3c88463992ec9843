package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	borrowDomain "toolshare-backend/internal/domain/borrow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BorrowRepository struct{ db *gorm.DB }

func NewBorrowRepository(db *gorm.DB) *BorrowRepository { return &BorrowRepository{db: db} }

// mutable columns; parties, item, start and request date never change after insert
var borrowMutableColumns = []string{
	"end_date", "status", "status_updated_at", "version",
	"extension_requested", "extension_requested_until", "extension_requested_at",
	"updated_at",
}

func (r *BorrowRepository) Create(ctx context.Context, b *borrowDomain.BorrowRequest) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BorrowRepository) Save(ctx context.Context, b *borrowDomain.BorrowRequest) error {
	next := *b
	next.Version = b.Version + 1
	next.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&borrowDomain.BorrowRequest{}).
		Where("id = ? AND version = ?", b.ID, b.Version).
		Select(borrowMutableColumns).
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: borrow request %s was modified concurrently", borrowDomain.ErrInvalidState, b.RequestID)
	}
	b.Version = next.Version
	b.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *BorrowRepository) GetByRequestID(ctx context.Context, requestID string) (*borrowDomain.BorrowRequest, error) {
	var out borrowDomain.BorrowRequest
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out)
	return borrowOrNotFound(&out, res.Error)
}

func (r *BorrowRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*borrowDomain.BorrowRequest, error) {
	var out borrowDomain.BorrowRequest
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", requestID).
		First(&out)
	return borrowOrNotFound(&out, res.Error)
}

func (r *BorrowRepository) ListByBorrower(ctx context.Context, borrowerID string) ([]borrowDomain.BorrowRequest, error) {
	var out []borrowDomain.BorrowRequest
	err := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("request_date DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *BorrowRepository) ListByLender(ctx context.Context, lenderID string) ([]borrowDomain.BorrowRequest, error) {
	var out []borrowDomain.BorrowRequest
	err := r.db.WithContext(ctx).
		Where("lender_id = ?", lenderID).
		Order("request_date DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *BorrowRepository) ListByStatus(ctx context.Context, status borrowDomain.Status) ([]borrowDomain.BorrowRequest, error) {
	var out []borrowDomain.BorrowRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("end_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *BorrowRepository) CountByStatus(ctx context.Context, status borrowDomain.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&borrowDomain.BorrowRequest{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

// ExistsActiveForItem is a locking read so it sees the latest committed rows
// rather than the transaction snapshot.
func (r *BorrowRepository) ExistsActiveForItem(ctx context.Context, itemID string, statuses []borrowDomain.Status) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&borrowDomain.BorrowRequest{}).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("item_id = ? AND status IN ?", itemID, statuses).
		Count(&n).Error
	return n > 0, err
}

func (r *BorrowRepository) FindOverdueForBorrower(ctx context.Context, borrowerID string, now time.Time) ([]borrowDomain.BorrowRequest, error) {
	var out []borrowDomain.BorrowRequest
	err := r.db.WithContext(ctx).
		Where("borrower_id = ? AND status = ? AND end_date < ?", borrowerID, borrowDomain.StatusApproved, now.UTC()).
		Order("end_date ASC").
		Find(&out).Error
	return out, err
}

func borrowOrNotFound(b *borrowDomain.BorrowRequest, err error) (*borrowDomain.BorrowRequest, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, borrowDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
