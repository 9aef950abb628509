package domain

import (
	"context"
	"errors"
)

type IssueTicketRequest struct {
	EventID       string
	AttendeeName  string
	AttendeeEmail string
}

// SweepResult reports one run of the expiry sweep. The two ticket passes are
// independent; a pass that fails leaves its count at zero without blocking
// the other.
type SweepResult struct {
	EventsEnded      int64 `json:"events_ended"`
	AbandonedExpired int64 `json:"abandoned_expired"`
	PostEventExpired int64 `json:"post_event_expired"`
	Total            int64 `json:"total"`
}

type Service interface {
	Issue(ctx context.Context, req IssueTicketRequest) (Ticket, error)
	GetByID(ctx context.Context, id string) (Ticket, error)
	// ListByEvent is restricted to the event's organizer; the rows carry
	// live QR tokens.
	ListByEvent(ctx context.Context, eventID string) ([]Ticket, error)

	// HandlePaymentSuccess is the gateway success callback: idempotent, a
	// duplicate delivery never reissues the QR credential.
	HandlePaymentSuccess(ctx context.Context, ticketID string) (Ticket, error)

	// HandlePaymentCancel records the cancelled checkout on the payment
	// axis only.
	HandlePaymentCancel(ctx context.Context, ticketID string) error

	Approve(ctx context.Context, ticketID string) (Ticket, error)
	Reject(ctx context.Context, ticketID string) (Ticket, error)

	// CheckIn redeems a QR token; only the organizer of the ticket's event
	// may redeem it.
	CheckIn(ctx context.Context, qrToken string) (Ticket, error)

	ExpireStale(ctx context.Context) (SweepResult, error)
}

var (
	ErrInvalidID         = errors.New("invalid_ticket_id")
	ErrInvalidAttendee   = errors.New("invalid_attendee")
	ErrNotFound          = errors.New("ticket_not_found")
	ErrEventNotFound     = errors.New("event_not_found")
	ErrEventEnded        = errors.New("event_ended")
	ErrEventFull         = errors.New("event_full")
	ErrNotPending        = errors.New("ticket_not_pending")
	ErrNotApproved       = errors.New("ticket_not_approved")
	ErrAlreadyCheckedIn  = errors.New("ticket_already_checked_in")
	ErrAlreadyFinal      = errors.New("ticket_already_final")
	ErrPaymentNotAllowed = errors.New("payment_not_allowed")
)
