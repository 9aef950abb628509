package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreateEventRequest struct {
	Title            string
	Venue            string
	OrganizationID   string
	StartsAt         time.Time
	EndsAt           time.Time
	Capacity         int
	IsPaid           bool
	Price            decimal.Decimal
	FeeBearer        string
	RequiresApproval bool
}

type GetEventRequest struct {
	ID string
}

type Service interface {
	Create(ctx context.Context, req CreateEventRequest) (Event, error)
	GetByID(ctx context.Context, req GetEventRequest) (Event, error)
	GetBySlug(ctx context.Context, slug string) (Event, error)
	ListMine(ctx context.Context) ([]Event, error)
}

var (
	ErrInvalidOrganizer = errors.New("invalid_organizer")
	ErrInvalidTitle     = errors.New("invalid_title")
	ErrInvalidSchedule  = errors.New("invalid_schedule")
	ErrInvalidCapacity  = errors.New("invalid_capacity")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidFeeBearer = errors.New("invalid_fee_bearer")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrNotOrganizer     = errors.New("not_organizer")
)
