package domain

import (
	"context"
	"errors"
)

// SettleResult reports one run of the settlement batch: all-or-nothing per
// event, best-effort across events.
type SettleResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

type Service interface {
	// Settle finds every event eligible for payout and settles each one
	// independently; a failing event never aborts the batch.
	Settle(ctx context.Context) (SettleResult, error)

	// GetByEvent is restricted to the event's organizer.
	GetByEvent(ctx context.Context, eventID string) (Payout, error)
	ListMine(ctx context.Context) ([]Payout, error)

	// HandleGatewayStatus records the gateway's webhook verdict on a payout
	// previously created for the event.
	HandleGatewayStatus(ctx context.Context, eventID, status string) error
}

var (
	ErrInvalidID        = errors.New("invalid_payout_id")
	ErrInvalidStatus    = errors.New("invalid_payout_status")
	ErrNotFound         = errors.New("payout_not_found")
	ErrMissingRecipient = errors.New("missing_payout_recipient")
)
