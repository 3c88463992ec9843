// Package availability is the only writer of an item's AVAILABLE/UNAVAILABLE flag.
package availability

import (
	"context"
	"errors"
	"fmt"

	"toolshare-backend/internal/domain/borrow"
	"toolshare-backend/internal/domain/item"
)

// MarkUnavailable takes the item out of circulation. A REMOVED item stays REMOVED.
func MarkUnavailable(ctx context.Context, items item.Repository, itemID string) error {
	it, err := lockItem(ctx, items, itemID)
	if err != nil {
		return err
	}
	if it.AvailabilityStatus == item.StatusRemoved {
		return fmt.Errorf("%w: item %s has been removed", borrow.ErrInvalidState, itemID)
	}
	it.AvailabilityStatus = item.StatusUnavailable
	return items.Save(ctx, it)
}

// MarkAvailable releases the item. REMOVED is terminal and is left untouched.
func MarkAvailable(ctx context.Context, items item.Repository, itemID string) error {
	it, err := lockItem(ctx, items, itemID)
	if err != nil {
		return err
	}
	if it.AvailabilityStatus == item.StatusRemoved {
		return nil
	}
	it.AvailabilityStatus = item.StatusAvailable
	return items.Save(ctx, it)
}

func lockItem(ctx context.Context, items item.Repository, itemID string) (*item.Item, error) {
	it, err := items.GetByItemIDForUpdate(ctx, itemID)
	if errors.Is(err, item.ErrNotFound) {
		return nil, fmt.Errorf("%w: item %s does not exist", borrow.ErrNotFound, itemID)
	}
	return it, err
}
