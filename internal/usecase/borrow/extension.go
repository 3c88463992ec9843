package borrow

import (
	"context"
	"fmt"
	"time"

	"toolshare-backend/internal/domain/borrow"
	"toolshare-backend/internal/domain/uow"
)

const (
	MinExtensionDays = 1
	MaxExtensionDays = 30
)

// RequestExtension proposes a later end date; EndDate itself changes only on approval.
func (u *Usecase) RequestExtension(ctx context.Context, requestID, borrowerID string, days int) (*BorrowRequestDTO, error) {
	return u.transition(ctx, requestID, borrowerID, roleBorrower, "extend", borrow.EventExtensionRequested,
		func(r uow.Repos, b *borrow.BorrowRequest, now time.Time) error {
			if days < MinExtensionDays || days > MaxExtensionDays {
				return fmt.Errorf("%w: extension must be between %d and %d days", borrow.ErrInvalidArgument, MinExtensionDays, MaxExtensionDays)
			}
			if b.Status != borrow.StatusApproved {
				return fmt.Errorf("%w: only approved requests can be extended", borrow.ErrInvalidState)
			}
			if b.HasPendingExtension() {
				return fmt.Errorf("%w: an extension request is already pending", borrow.ErrInvalidState)
			}
			b.SetExtension(b.EndDate.AddDate(0, 0, days), now)
			return nil
		})
}

func (u *Usecase) ApproveExtension(ctx context.Context, requestID, lenderID string) (*BorrowRequestDTO, error) {
	return u.transition(ctx, requestID, lenderID, roleLender, "approve the extension of", borrow.EventExtensionApproved,
		func(r uow.Repos, b *borrow.BorrowRequest, now time.Time) error {
			if err := pendingExtension(b); err != nil {
				return err
			}
			b.EndDate = *b.ExtensionRequestedUntil
			b.ClearExtension()
			return nil
		})
}

func (u *Usecase) DeclineExtension(ctx context.Context, requestID, lenderID string) (*BorrowRequestDTO, error) {
	return u.transition(ctx, requestID, lenderID, roleLender, "decline the extension of", borrow.EventExtensionDeclined,
		func(r uow.Repos, b *borrow.BorrowRequest, now time.Time) error {
			if err := pendingExtension(b); err != nil {
				return err
			}
			b.ClearExtension()
			return nil
		})
}

func pendingExtension(b *borrow.BorrowRequest) error {
	if !b.HasPendingExtension() {
		return fmt.Errorf("%w: no extension request is pending", borrow.ErrInvalidState)
	}
	if b.Status != borrow.StatusApproved {
		return fmt.Errorf("%w: only approved requests can be extended", borrow.ErrInvalidState)
	}
	return nil
}
