package borrow

import (
	"context"
	"time"
)

type EventType string

const (
	EventCreated            EventType = "borrow_request.created"
	EventApproved           EventType = "borrow_request.approved"
	EventDeclined           EventType = "borrow_request.declined"
	EventCancelled          EventType = "borrow_request.cancelled"
	EventReturnRequested    EventType = "borrow_request.return_requested"
	EventCompleted          EventType = "borrow_request.completed"
	EventOverdueCompleted   EventType = "borrow_request.overdue_completed"
	EventExtensionRequested EventType = "borrow_request.extension_requested"
	EventExtensionApproved  EventType = "borrow_request.extension_approved"
	EventExtensionDeclined  EventType = "borrow_request.extension_declined"
)

// Event is the read model handed to messaging/ratings consumers after a commit.
type Event struct {
	Type       EventType `json:"type"`
	RequestID  string    `json:"request_id"`
	Status     Status    `json:"status"`
	BorrowerID string    `json:"borrower_id"`
	LenderID   string    `json:"lender_id"`
	ItemID     string    `json:"item_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(t EventType, b *BorrowRequest, now time.Time) Event {
	return Event{
		Type:       t,
		RequestID:  b.RequestID,
		Status:     b.Status,
		BorrowerID: b.BorrowerID,
		LenderID:   b.LenderID,
		ItemID:     b.ItemID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		OccurredAt: now.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
