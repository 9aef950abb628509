package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, event *Event) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Event, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Event, error)
	ListByOrganizer(ctx context.Context, db *gorm.DB, organizerID snowflake.ID) ([]*Event, error)

	// MarkEnded flips active events whose end date has passed to ended and
	// returns how many rows changed.
	MarkEnded(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)

	// FindSettleCandidates returns ended events that have not been paid out
	// and whose end date is older than the cutoff.
	FindSettleCandidates(ctx context.Context, db *gorm.DB, cutoff time.Time) ([]*Event, error)

	// SetPayoutCompleted flips payout_completed exactly once; zero rows
	// affected means another run already settled the event.
	SetPayoutCompleted(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)

	UpdatePINHash(ctx context.Context, db *gorm.DB, id snowflake.ID, hash string) error
}
