package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"toolshare-backend/internal/domain/borrow"
	"toolshare-backend/internal/testutil/borrowmock"
)

func TestStats(t *testing.T) {
	uc := NewUsecase(&borrowmock.Repo{
		CountByStatusFn: func(ctx context.Context, s borrow.Status) (int64, error) {
			switch s {
			case borrow.StatusApproved:
				return 4, nil
			case borrow.StatusPending:
				return 2, nil
			}
			t.Fatalf("unexpected status %s", s)
			return 0, nil
		},
	})
	got, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats err: %v", err)
	}
	if got.ActiveBorrows != 4 || got.PendingRequests != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestStats_PropagatesError(t *testing.T) {
	boom := errors.New("db down")
	uc := NewUsecase(&borrowmock.Repo{
		CountByStatusFn: func(context.Context, borrow.Status) (int64, error) { return 0, boom },
	})
	if _, err := uc.Stats(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}

func TestListOverdue_FiltersAtQueryTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc := NewUsecase(&borrowmock.Repo{
		ListByStatusFn: func(ctx context.Context, s borrow.Status) ([]borrow.BorrowRequest, error) {
			if s != borrow.StatusApproved {
				t.Fatalf("status=%s", s)
			}
			return []borrow.BorrowRequest{
				{RequestID: "late", Status: borrow.StatusApproved, EndDate: now.Add(-time.Minute)},
				{RequestID: "ok", Status: borrow.StatusApproved, EndDate: now.Add(time.Minute)},
			}, nil
		},
	}).WithClock(func() time.Time { return now })

	got, err := uc.ListOverdue(context.Background())
	if err != nil {
		t.Fatalf("ListOverdue err: %v", err)
	}
	if len(got) != 1 || got[0].RequestID != "late" {
		t.Fatalf("got %+v", got)
	}
}
