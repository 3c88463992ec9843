package mysql

import (
	"context"
	"testing"
	"time"

	borrowDomain "toolshare-backend/internal/domain/borrow"
	"toolshare-backend/pkg/id"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrowRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewBorrowRepository(db)
	ctx := context.Background()

	b := makeRequest(id.NewID32(), id.NewID32(), id.NewID32(), borrowDomain.StatusPending, time.Now().Add(72*time.Hour))
	require.NoError(t, repo.Create(ctx, b))
	require.NotZero(t, b.ID)

	got, err := repo.GetByRequestID(ctx, b.RequestID)
	require.NoError(t, err)
	assert.Equal(t, b.BorrowerID, got.BorrowerID)
	assert.Equal(t, borrowDomain.StatusPending, got.Status)
	assert.False(t, got.HasPendingExtension())

	locked, err := repo.GetByRequestIDForUpdate(ctx, b.RequestID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, locked.ID)
}

func TestBorrowRepository_NotFound(t *testing.T) {
	repo := NewBorrowRepository(openTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByRequestID(ctx, "nope")
	require.ErrorIs(t, err, borrowDomain.ErrNotFound)
	_, err = repo.GetByRequestIDForUpdate(ctx, "nope")
	require.ErrorIs(t, err, borrowDomain.ErrNotFound)
}

func TestBorrowRepository_SaveBumpsVersionAndKeepsImmutableColumns(t *testing.T) {
	db := openTestDB(t)
	repo := NewBorrowRepository(db)
	ctx := context.Background()

	b := makeRequest(id.NewID32(), id.NewID32(), id.NewID32(), borrowDomain.StatusApproved, time.Now().Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, b))
	origBorrower := b.BorrowerID

	until := b.EndDate.AddDate(0, 0, 5)
	b.SetExtension(until, time.Now())
	b.BorrowerID = id.NewID32() // must not be written
	require.NoError(t, repo.Save(ctx, b))
	assert.Equal(t, uint64(1), b.Version)

	got, err := repo.GetByRequestID(ctx, b.RequestID)
	require.NoError(t, err)
	assert.Equal(t, origBorrower, got.BorrowerID)
	assert.True(t, got.HasPendingExtension())
	assert.WithinDuration(t, until, *got.ExtensionRequestedUntil, time.Second)

	got.ClearExtension()
	require.NoError(t, repo.Save(ctx, got))
	again, err := repo.GetByRequestID(ctx, b.RequestID)
	require.NoError(t, err)
	assert.False(t, again.ExtensionRequested)
	assert.Nil(t, again.ExtensionRequestedUntil)
	assert.Nil(t, again.ExtensionRequestedAt)
	assert.Equal(t, uint64(2), again.Version)
}

func TestBorrowRepository_SaveStaleVersion(t *testing.T) {
	repo := NewBorrowRepository(openTestDB(t))
	ctx := context.Background()

	b := makeRequest(id.NewID32(), id.NewID32(), id.NewID32(), borrowDomain.StatusPending, time.Now().Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, b))

	stale := *b
	b.Status = borrowDomain.StatusApproved
	require.NoError(t, repo.Save(ctx, b))

	stale.Status = borrowDomain.StatusDeclined
	err := repo.Save(ctx, &stale)
	require.ErrorIs(t, err, borrowDomain.ErrInvalidState)

	got, err := repo.GetByRequestID(ctx, b.RequestID)
	require.NoError(t, err)
	assert.Equal(t, borrowDomain.StatusApproved, got.Status)
}

func TestBorrowRepository_ListsAndCounts(t *testing.T) {
	repo := NewBorrowRepository(openTestDB(t))
	ctx := context.Background()

	borrower, lender := id.NewID32(), id.NewID32()
	item1, item2 := id.NewID32(), id.NewID32()
	now := time.Now().UTC()

	overdue := makeRequest(borrower, lender, item1, borrowDomain.StatusApproved, now.Add(-time.Hour))
	current := makeRequest(borrower, lender, item2, borrowDomain.StatusApproved, now.Add(time.Hour))
	pending := makeRequest(id.NewID32(), lender, id.NewID32(), borrowDomain.StatusPending, now.Add(time.Hour))
	returning := makeRequest(id.NewID32(), id.NewID32(), id.NewID32(), borrowDomain.StatusReturnRequested, now.Add(time.Hour))
	for _, b := range []*borrowDomain.BorrowRequest{overdue, current, pending, returning} {
		require.NoError(t, repo.Create(ctx, b))
	}

	sent, err := repo.ListByBorrower(ctx, borrower)
	require.NoError(t, err)
	assert.Len(t, sent, 2)

	incoming, err := repo.ListByLender(ctx, lender)
	require.NoError(t, err)
	assert.Len(t, incoming, 3)

	approved, err := repo.ListByStatus(ctx, borrowDomain.StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 2)
	assert.Equal(t, overdue.RequestID, approved[0].RequestID, "ordered by end date")

	n, err := repo.CountByStatus(ctx, borrowDomain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	late, err := repo.FindOverdueForBorrower(ctx, borrower, now)
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, overdue.RequestID, late[0].RequestID)

	active, err := repo.ExistsActiveForItem(ctx, returning.ItemID, borrowDomain.ActiveStatuses)
	require.NoError(t, err)
	assert.True(t, active)

	active, err = repo.ExistsActiveForItem(ctx, returning.ItemID, []borrowDomain.Status{borrowDomain.StatusPending, borrowDomain.StatusApproved})
	require.NoError(t, err)
	assert.False(t, active)
}
