package borrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toolshare-backend/internal/domain/borrow"
	"toolshare-backend/internal/domain/item"
	"toolshare-backend/internal/domain/uow"
	"toolshare-backend/internal/domain/user"
)

// checkEligibility runs inside the create transaction. The item row lock is
// taken before any other read: under REPEATABLE READ the snapshot is fixed by
// the first plain read, so locking first keeps a competing create that
// committed while we waited visible to the active-request check.
// Lookup errors are still reported borrower first, item second.
func checkEligibility(ctx context.Context, r uow.Repos, borrowerID, itemID string, now time.Time) (*item.Item, error) {
	it, itemErr := r.Items.GetByItemIDForUpdate(ctx, itemID)

	u, err := r.Users.GetByUserID(ctx, borrowerID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("%w: borrower %s does not exist", borrow.ErrNotFound, borrowerID)
	}
	if err != nil {
		return nil, err
	}
	if u.Banned {
		return nil, fmt.Errorf("%w: banned users cannot borrow items", borrow.ErrForbidden)
	}

	overdue, err := r.Borrows.FindOverdueForBorrower(ctx, borrowerID, now)
	if err != nil {
		return nil, err
	}
	if len(overdue) > 0 {
		return nil, fmt.Errorf("%w: overdue items must be returned first", borrow.ErrForbidden)
	}

	if errors.Is(itemErr, item.ErrNotFound) {
		return nil, fmt.Errorf("%w: item %s does not exist", borrow.ErrNotFound, itemID)
	}
	if itemErr != nil {
		return nil, itemErr
	}
	if it.OwnerID == borrowerID {
		return nil, fmt.Errorf("%w: you cannot borrow your own item", borrow.ErrForbidden)
	}
	if it.AvailabilityStatus != item.StatusAvailable {
		return nil, fmt.Errorf("%w: item is not available for borrowing", borrow.ErrInvalidState)
	}

	active, err := r.Borrows.ExistsActiveForItem(ctx, itemID, borrow.ActiveStatuses)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, fmt.Errorf("%w: item already has an active borrow request", borrow.ErrInvalidState)
	}
	return it, nil
}
