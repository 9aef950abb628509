package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository mutations that change status are conditional updates: the WHERE
// clause carries the expected current state and zero rows affected means the
// precondition failed. This is the system's only concurrency guard.
type Repository interface {
	// InsertWithinCapacity inserts the ticket only while the event's seat
	// count (tickets not expired, cancelled or rejected) is below capacity.
	// Zero rows affected means the event is full.
	InsertWithinCapacity(ctx context.Context, db *gorm.DB, ticket *Ticket, capacity int) (int64, error)

	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Ticket, error)
	FindByQRToken(ctx context.Context, db *gorm.DB, token string) (*Ticket, error)
	ListByEvent(ctx context.Context, db *gorm.DB, eventID snowflake.ID) ([]*Ticket, error)

	// MarkPaymentApproved applies unpaid -> approved with a fresh QR token.
	MarkPaymentApproved(ctx context.Context, db *gorm.DB, id snowflake.ID, qrToken string, now time.Time) (int64, error)

	// MarkPaymentPending applies unpaid -> pending for approval-required
	// events; payment is recorded but the organizer still has to approve.
	MarkPaymentPending(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (int64, error)

	// MarkPaymentCancelled flips only the payment axis; ticket status stays
	// unpaid so checkout can be retried.
	MarkPaymentCancelled(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (int64, error)

	// MarkApproved applies pending -> approved with a fresh QR token.
	MarkApproved(ctx context.Context, db *gorm.DB, id snowflake.ID, qrToken string, now time.Time) (int64, error)

	// MarkRejected applies pending -> rejected.
	MarkRejected(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (int64, error)

	// MarkCheckedIn applies approved -> checked_in with a timestamp.
	MarkCheckedIn(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (int64, error)

	// ExpireAbandoned expires unpaid/cancelled tickets created before cutoff.
	ExpireAbandoned(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error)

	// ExpirePostEvent expires approved/pending tickets whose event ended
	// before eventCutoff.
	ExpirePostEvent(ctx context.Context, db *gorm.DB, eventCutoff, now time.Time) (int64, error)

	// SumPaidByEvent aggregates tickets with monime_payment_status = paid.
	SumPaidByEvent(ctx context.Context, db *gorm.DB, eventID snowflake.ID) (*Settlement, error)
}
