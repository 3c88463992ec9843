package borrow

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidArgument = errors.New("invalid argument")
)

type Status string

const (
	StatusPending         Status = "PENDING"
	StatusApproved        Status = "APPROVED"
	StatusDeclined        Status = "DECLINED"
	StatusReturnRequested Status = "RETURN_REQUESTED"
	// StatusReturned is part of the stored domain but no transition produces it.
	StatusReturned  Status = "RETURNED"
	StatusCompleted Status = "COMPLETED"
)

// ActiveStatuses occupy an item's single borrow slot.
var ActiveStatuses = []Status{StatusPending, StatusApproved, StatusReturnRequested}

var transitions = map[Status][]Status{
	StatusPending:         {StatusApproved, StatusDeclined},
	StatusApproved:        {StatusReturnRequested, StatusCompleted},
	StatusReturnRequested: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func IsActive(s Status) bool {
	for _, a := range ActiveStatuses {
		if a == s {
			return true
		}
	}
	return false
}

func IsTerminal(s Status) bool { return s == StatusDeclined || s == StatusCompleted }

// Table: borrow_requests
type BorrowRequest struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	RequestID  string `gorm:"column:request_id;size:32;not null;uniqueIndex:ux_borrow_requests_request_id" json:"request_id"`
	BorrowerID string `gorm:"column:borrower_id;size:32;not null;index:idx_borrow_requests_borrower" json:"borrower_id"`
	LenderID   string `gorm:"column:lender_id;size:32;not null;index:idx_borrow_requests_lender" json:"lender_id"`
	ItemID     string `gorm:"column:item_id;size:32;not null;index:idx_borrow_requests_item_status" json:"item_id"`

	StartDate   time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate     time.Time `gorm:"column:end_date;not null;index:idx_borrow_requests_status_end" json:"end_date"`
	Status      Status    `gorm:"column:status;size:20;not null;default:'PENDING';index:idx_borrow_requests_item_status;index:idx_borrow_requests_status_end" json:"status"`
	RequestDate time.Time `gorm:"column:request_date;not null" json:"request_date"`

	// pending extension: all three set or all three cleared
	ExtensionRequested      bool       `gorm:"column:extension_requested;not null;default:false" json:"extension_requested"`
	ExtensionRequestedUntil *time.Time `gorm:"column:extension_requested_until" json:"extension_requested_until,omitempty"`
	ExtensionRequestedAt    *time.Time `gorm:"column:extension_requested_at" json:"extension_requested_at,omitempty"`

	StatusUpdatedAt time.Time `gorm:"column:status_updated_at" json:"status_updated_at"`
	Version         uint64    `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BorrowRequest) TableName() string { return "borrow_requests" }

// TransitionTo moves the request along the state machine, stamping StatusUpdatedAt.
func (b *BorrowRequest) TransitionTo(to Status, now time.Time) error {
	if IsTerminal(b.Status) {
		return fmt.Errorf("%w: request is already %s", ErrInvalidState, b.Status)
	}
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: cannot move request from %s to %s", ErrInvalidState, b.Status, to)
	}
	b.Status = to
	b.StatusUpdatedAt = now.UTC()
	return nil
}

func (b *BorrowRequest) IsOverdue(now time.Time) bool {
	return b.Status == StatusApproved && b.EndDate.Before(now)
}

func (b *BorrowRequest) HasPendingExtension() bool {
	return b.ExtensionRequested && b.ExtensionRequestedUntil != nil
}

func (b *BorrowRequest) SetExtension(until, now time.Time) {
	u, at := until.UTC(), now.UTC()
	b.ExtensionRequested = true
	b.ExtensionRequestedUntil = &u
	b.ExtensionRequestedAt = &at
}

func (b *BorrowRequest) ClearExtension() {
	b.ExtensionRequested = false
	b.ExtensionRequestedUntil = nil
	b.ExtensionRequestedAt = nil
}
