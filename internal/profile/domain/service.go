package domain

import (
	"context"
	"errors"
)

type UpdateProfileRequest struct {
	FullName    string
	Email       string
	MonimePhone string
}

type Service interface {
	// Get returns the calling organizer's profile.
	Get(ctx context.Context) (Profile, error)

	// Update creates or replaces the calling organizer's profile, including
	// the payout destination phone.
	Update(ctx context.Context, req UpdateProfileRequest) (Profile, error)
}

var (
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidPhone = errors.New("invalid_phone")
)
