package borrow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"toolshare-backend/internal/domain/borrow"
	"toolshare-backend/internal/domain/uow"
	"toolshare-backend/internal/usecase/availability"
	"toolshare-backend/pkg/id"
)

const DefaultDurationDays = 3

// Reconciler is run before listing so a user's view never shows an overdue
// request the scheduled sweep has not reached yet.
type Reconciler interface {
	Reconcile(ctx context.Context) error
}

type Usecase struct {
	borrows    borrow.Repository
	uow        uow.UnitOfWork
	publisher  borrow.Publisher
	reconciler Reconciler
	logger     *slog.Logger
	now        func() time.Time

	defaultDurationDays int
}

type Option func(*Usecase)

func WithPublisher(p borrow.Publisher) Option { return func(u *Usecase) { u.publisher = p } }
func WithReconciler(r Reconciler) Option      { return func(u *Usecase) { u.reconciler = r } }
func WithLogger(l *slog.Logger) Option        { return func(u *Usecase) { u.logger = l } }
func WithClock(now func() time.Time) Option   { return func(u *Usecase) { u.now = now } }

func WithDefaultDurationDays(days int) Option {
	return func(u *Usecase) {
		if days > 0 {
			u.defaultDurationDays = days
		}
	}
}

// NewUsecase: borrows serves plain reads, tx runs every state change.
func NewUsecase(borrows borrow.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{
		borrows:             borrows,
		uow:                 tx,
		publisher:           borrow.NopPublisher{},
		logger:              slog.Default(),
		now:                 func() time.Time { return time.Now().UTC() },
		defaultDurationDays: DefaultDurationDays,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*BorrowRequestDTO, error) {
	if u.uow == nil {
		return nil, errNoUoW
	}
	if !id.Valid(in.BorrowerID) || !id.Valid(in.ItemID) {
		return nil, fmt.Errorf("%w: borrower_id and item_id must be 32-char hex", borrow.ErrInvalidArgument)
	}
	now := u.now()
	start, end, err := u.resolveDates(in, now)
	if err != nil {
		return nil, err
	}

	var out *borrow.BorrowRequest
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		it, err := checkEligibility(ctx, r, in.BorrowerID, in.ItemID, now)
		if err != nil {
			return err
		}
		b := &borrow.BorrowRequest{
			RequestID:       id.NewID32(),
			BorrowerID:      in.BorrowerID,
			LenderID:        it.OwnerID, // fixed at creation
			ItemID:          it.ItemID,
			StartDate:       start,
			EndDate:         end,
			Status:          borrow.StatusPending,
			RequestDate:     now,
			StatusUpdatedAt: now,
		}
		if err := r.Borrows.Create(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, borrow.NewEvent(borrow.EventCreated, out, now))
	return ToDTO(out), nil
}

func (u *Usecase) resolveDates(in CreateInput, now time.Time) (time.Time, time.Time, error) {
	if in.StartDate != nil && in.EndDate != nil {
		start, end := in.StartDate.UTC(), in.EndDate.UTC()
		if !end.After(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date must be after start_date", borrow.ErrInvalidArgument)
		}
		return start, end, nil
	}
	days := in.DurationDays
	if days == 0 {
		days = u.defaultDurationDays
	}
	if days < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: duration_days must be at least 1", borrow.ErrInvalidArgument)
	}
	return now, now.AddDate(0, 0, days), nil
}

func (u *Usecase) Approve(ctx context.Context, requestID, lenderID string) (*BorrowRequestDTO, error) {
	return u.transition(ctx, requestID, lenderID, roleLender, "approve", borrow.EventApproved,
		func(r uow.Repos, b *borrow.BorrowRequest, now time.Time) error {
			if b.Status != borrow.StatusPending {
				return fmt.Errorf("%w: only pending requests can be approved", borrow.ErrInvalidState)
			}
			if err := b.TransitionTo(borrow.StatusApproved, now); err != nil {
				return err
			}
			return availability.MarkUnavailable(ctx, r.Items, b.ItemID)
		})
}

func (u *Usecase) Decline(ctx context.Context, requestID, lenderID string) (*BorrowRequestDTO, error) {
	return u.transition(ctx, requestID, lenderID, roleLender, "decline", borrow.EventDeclined,
		func(r uow.Repos, b *borrow.BorrowRequest, now time.Time) error {
			if b.Status != borrow.StatusPending {
				return fmt.Errorf("%w: only pending requests can be declined", borrow.ErrInvalidState)
			}
			return b.TransitionTo(borrow.StatusDeclined, now)
		})
}

// Cancel is the borrower withdrawing a pending request; it ends as DECLINED.
func (u *Usecase) Cancel(ctx context.Context, requestID, borrowerID string) (*BorrowRequestDTO, error) {
	return u.transition(ctx, requestID, borrowerID, roleBorrower, "cancel", borrow.EventCancelled,
		func(r uow.Repos, b *borrow.BorrowRequest, now time.Time) error {
			if b.Status != borrow.StatusPending {
				return fmt.Errorf("%w: only pending requests can be cancelled", borrow.ErrInvalidState)
			}
			return b.TransitionTo(borrow.StatusDeclined, now)
		})
}

// RequestReturn leaves the item UNAVAILABLE until the lender confirms.
func (u *Usecase) RequestReturn(ctx context.Context, requestID, borrowerID string) (*BorrowRequestDTO, error) {
	return u.transition(ctx, requestID, borrowerID, roleBorrower, "return", borrow.EventReturnRequested,
		func(r uow.Repos, b *borrow.BorrowRequest, now time.Time) error {
			if b.Status != borrow.StatusApproved {
				return fmt.Errorf("%w: only approved requests can be returned", borrow.ErrInvalidState)
			}
			b.ClearExtension()
			return b.TransitionTo(borrow.StatusReturnRequested, now)
		})
}

func (u *Usecase) ConfirmReturn(ctx context.Context, requestID, lenderID string) (*BorrowRequestDTO, error) {
	return u.transition(ctx, requestID, lenderID, roleLender, "confirm the return of", borrow.EventCompleted,
		func(r uow.Repos, b *borrow.BorrowRequest, now time.Time) error {
			if b.Status != borrow.StatusReturnRequested {
				return fmt.Errorf("%w: only requests awaiting return can be confirmed", borrow.ErrInvalidState)
			}
			if err := b.TransitionTo(borrow.StatusCompleted, now); err != nil {
				return err
			}
			return availability.MarkAvailable(ctx, r.Items, b.ItemID)
		})
}

// Get is visible to both parties only.
func (u *Usecase) Get(ctx context.Context, requestID, callerID string) (*BorrowRequestDTO, error) {
	b, err := u.borrows.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if callerID != b.BorrowerID && callerID != b.LenderID {
		return nil, fmt.Errorf("%w: you are not a party to this request", borrow.ErrForbidden)
	}
	return ToDTO(b), nil
}

func (u *Usecase) ListSent(ctx context.Context, borrowerID string) ([]BorrowRequestDTO, error) {
	u.reconcile(ctx)
	list, err := u.borrows.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	return ToDTOs(list), nil
}

func (u *Usecase) ListIncoming(ctx context.Context, lenderID string) ([]BorrowRequestDTO, error) {
	u.reconcile(ctx)
	list, err := u.borrows.ListByLender(ctx, lenderID)
	if err != nil {
		return nil, err
	}
	return ToDTOs(list), nil
}

// reconcile failures never fail the read.
func (u *Usecase) reconcile(ctx context.Context) {
	if u.reconciler == nil {
		return
	}
	if err := u.reconciler.Reconcile(ctx); err != nil {
		u.logger.WarnContext(ctx, "read-triggered reconciliation failed", slog.Any("err", err))
	}
}

type role int

const (
	roleBorrower role = iota
	roleLender
)

// errNoUoW is a wiring fault, not a request conflict, so it maps to 500.
var errNoUoW = errors.New("borrow: no unit of work configured")

type mutation func(r uow.Repos, b *borrow.BorrowRequest, now time.Time) error

// transition locks the request, checks the caller, applies fn and saves, all
// in one transaction. The event is published only after commit.
func (u *Usecase) transition(ctx context.Context, requestID, callerID string, who role, action string, ev borrow.EventType, fn mutation) (*BorrowRequestDTO, error) {
	if u.uow == nil {
		return nil, errNoUoW
	}
	now := u.now()
	var out *borrow.BorrowRequest
	err := u.uow.WithinBorrowTx(ctx, requestID, func(r uow.Repos, b *borrow.BorrowRequest) error {
		if err := authorize(b, callerID, who, action); err != nil {
			return err
		}
		if err := fn(r, b, now); err != nil {
			return err
		}
		if err := r.Borrows.Save(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, borrow.NewEvent(ev, out, now))
	return ToDTO(out), nil
}

func authorize(b *borrow.BorrowRequest, callerID string, who role, action string) error {
	switch who {
	case roleLender:
		if callerID != b.LenderID {
			return fmt.Errorf("%w: only the lender can %s this request", borrow.ErrForbidden, action)
		}
	case roleBorrower:
		if callerID != b.BorrowerID {
			return fmt.Errorf("%w: only the borrower can %s this request", borrow.ErrForbidden, action)
		}
	}
	return nil
}

func (u *Usecase) publish(ctx context.Context, ev borrow.Event) {
	if err := u.publisher.Publish(ctx, ev); err != nil {
		u.logger.WarnContext(ctx, "publish borrow request event",
			slog.String("type", string(ev.Type)),
			slog.String("request_id", ev.RequestID),
			slog.Any("err", err))
	}
}
