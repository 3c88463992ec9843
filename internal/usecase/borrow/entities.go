package borrow

import (
	"time"

	"toolshare-backend/internal/domain/borrow"
)

type CreateInput struct {
	BorrowerID string
	ItemID     string
	// StartDate and EndDate are used verbatim only when both are set.
	StartDate    *time.Time
	EndDate      *time.Time
	DurationDays int // 0 means the configured default
}

type BorrowRequestDTO struct {
	RequestID               string     `json:"request_id"`
	Status                  string     `json:"status"`
	BorrowerID              string     `json:"borrower_id"`
	LenderID                string     `json:"lender_id"`
	ItemID                  string     `json:"item_id"`
	StartDate               time.Time  `json:"start_date"`
	EndDate                 time.Time  `json:"end_date"`
	RequestDate             time.Time  `json:"request_date"`
	ExtensionRequested      bool       `json:"extension_requested"`
	ExtensionRequestedUntil *time.Time `json:"extension_requested_until,omitempty"`
	ExtensionRequestedAt    *time.Time `json:"extension_requested_at,omitempty"`
}

func ToDTO(b *borrow.BorrowRequest) *BorrowRequestDTO {
	return &BorrowRequestDTO{
		RequestID:               b.RequestID,
		Status:                  string(b.Status),
		BorrowerID:              b.BorrowerID,
		LenderID:                b.LenderID,
		ItemID:                  b.ItemID,
		StartDate:               b.StartDate,
		EndDate:                 b.EndDate,
		RequestDate:             b.RequestDate,
		ExtensionRequested:      b.ExtensionRequested,
		ExtensionRequestedUntil: b.ExtensionRequestedUntil,
		ExtensionRequestedAt:    b.ExtensionRequestedAt,
	}
}

func ToDTOs(list []borrow.BorrowRequest) []BorrowRequestDTO {
	out := make([]BorrowRequestDTO, 0, len(list))
	for i := range list {
		out = append(out, *ToDTO(&list[i]))
	}
	return out
}
