// Package sweep completes APPROVED borrow requests whose end date has passed
// and releases their items.
package sweep

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"toolshare-backend/internal/domain/borrow"
	"toolshare-backend/internal/domain/uow"
	"toolshare-backend/internal/usecase/availability"
)

const (
	DefaultInterval = time.Minute
	LockKey         = "sweep:overdue-borrow-requests"
)

// Locker lets one replica own a scheduled pass. acquired=false with a nil
// error means another holder has it.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context) error, acquired bool, err error)
}

type Result struct {
	Scanned   int // APPROVED requests seen
	Completed int
	Skipped   int // changed by someone else between listing and locking
	Failed    int
}

type Sweeper struct {
	borrows   borrow.Repository
	uow       uow.UnitOfWork
	locker    Locker
	publisher borrow.Publisher
	logger    *slog.Logger
	now       func() time.Time
	lockTTL   time.Duration
}

type Option func(*Sweeper)

func WithLocker(l Locker, ttl time.Duration) Option {
	return func(s *Sweeper) { s.locker, s.lockTTL = l, ttl }
}
func WithPublisher(p borrow.Publisher) Option { return func(s *Sweeper) { s.publisher = p } }
func WithLogger(l *slog.Logger) Option        { return func(s *Sweeper) { s.logger = l } }
func WithClock(now func() time.Time) Option   { return func(s *Sweeper) { s.now = now } }

func New(borrows borrow.Repository, tx uow.UnitOfWork, opts ...Option) *Sweeper {
	s := &Sweeper{
		borrows:   borrows,
		uow:       tx,
		publisher: borrow.NopPublisher{},
		logger:    slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
		lockTTL:   DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SweepOnce runs one pass. Each request is completed in its own transaction;
// a failure on one is logged and counted and the pass moves on.
func (s *Sweeper) SweepOnce(ctx context.Context) (Result, error) {
	now := s.now()
	var res Result

	approved, err := s.borrows.ListByStatus(ctx, borrow.StatusApproved)
	if err != nil {
		return res, err
	}
	for i := range approved {
		b := &approved[i]
		res.Scanned++
		if !b.IsOverdue(now) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		done, err := s.completeOverdue(ctx, b.RequestID, now)
		switch {
		case err != nil:
			res.Failed++
			s.logger.ErrorContext(ctx, "overdue sweep: complete request",
				slog.String("request_id", b.RequestID),
				slog.String("item_id", b.ItemID),
				slog.Any("err", err))
		case done:
			res.Completed++
		default:
			res.Skipped++
		}
	}
	return res, nil
}

// Reconcile satisfies the read-triggered reconciliation hook of the borrow usecase.
func (s *Sweeper) Reconcile(ctx context.Context) error {
	_, err := s.SweepOnce(ctx)
	return err
}

func (s *Sweeper) completeOverdue(ctx context.Context, requestID string, now time.Time) (bool, error) {
	var done *borrow.BorrowRequest
	err := s.uow.WithinBorrowTx(ctx, requestID, func(r uow.Repos, b *borrow.BorrowRequest) error {
		// re-check under the row lock: a concurrent pass or an extension may have won
		if !b.IsOverdue(now) {
			return nil
		}
		b.ClearExtension()
		if err := b.TransitionTo(borrow.StatusCompleted, now); err != nil {
			return err
		}
		if err := availability.MarkAvailable(ctx, r.Items, b.ItemID); err != nil {
			if !errors.Is(err, borrow.ErrNotFound) {
				return err
			}
			// fail open: a missing item must not leave the request stuck
			s.logger.WarnContext(ctx, "overdue sweep: item missing, completing request without release",
				slog.String("request_id", b.RequestID),
				slog.String("item_id", b.ItemID),
				slog.Any("err", err))
		}
		if err := r.Borrows.Save(ctx, b); err != nil {
			return err
		}
		done = b
		return nil
	})
	if err != nil || done == nil {
		return false, err
	}
	if err := s.publisher.Publish(ctx, borrow.NewEvent(borrow.EventOverdueCompleted, done, now)); err != nil {
		s.logger.WarnContext(ctx, "overdue sweep: publish event",
			slog.String("request_id", done.RequestID), slog.Any("err", err))
	}
	return true, nil
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.tick(ctx, interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, interval)
		}
	}
}

// tick is bounded by one interval.
func (s *Sweeper) tick(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, interval)
	defer cancel()

	if s.locker != nil {
		unlock, ok, err := s.locker.TryLock(ctx, LockKey, s.lockTTL)
		if err != nil {
			s.logger.WarnContext(ctx, "overdue sweep: lock unavailable, skipping tick", slog.Any("err", err))
			return
		}
		if !ok {
			s.logger.DebugContext(ctx, "overdue sweep: another instance holds the lock")
			return
		}
		defer func() {
			if err := unlock(context.Background()); err != nil {
				s.logger.WarnContext(ctx, "overdue sweep: release lock", slog.Any("err", err))
			}
		}()
	}

	res, err := s.SweepOnce(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "overdue sweep: pass aborted", slog.Any("err", err))
	}
	if res.Completed > 0 || res.Failed > 0 {
		s.logger.InfoContext(ctx, "overdue sweep finished",
			slog.Int("scanned", res.Scanned),
			slog.Int("completed", res.Completed),
			slog.Int("skipped", res.Skipped),
			slog.Int("failed", res.Failed))
	}
}
