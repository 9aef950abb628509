package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Ticket status values. Terminal states never revert.
const (
	StatusUnpaid    = "unpaid"
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusCheckedIn = "checked_in"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Payment status is tracked separately from ticket status so a cancelled
// checkout can be retried without touching the ticket lifecycle.
const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentCancelled = "cancelled"
)

type Ticket struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	EventID         snowflake.ID    `gorm:"not null;index" json:"event_id"`
	AttendeeName    string          `gorm:"not null" json:"attendee_name"`
	AttendeeEmail   string          `gorm:"not null" json:"attendee_email"`
	AmountPaid      decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount_paid"`
	PlatformFee     decimal.Decimal `gorm:"type:numeric(14,2)" json:"platform_fee"`
	ProcessorFee    decimal.Decimal `gorm:"type:numeric(14,2)" json:"payment_processor_fee"`
	OrganizerAmount decimal.Decimal `gorm:"type:numeric(14,2)" json:"organizer_amount"`
	Status          string          `gorm:"not null;default:unpaid;index" json:"status"`
	PaymentStatus   string          `gorm:"column:monime_payment_status;not null;default:pending" json:"monime_payment_status"`
	QRToken         string          `gorm:"column:qr_token" json:"qr_token,omitempty"`
	CheckedInAt     *time.Time      `json:"checked_in_at,omitempty"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// IsTerminal reports whether the status admits no further transitions.
func IsTerminal(status string) bool {
	switch status {
	case StatusExpired, StatusCancelled, StatusRejected, StatusCheckedIn:
		return true
	default:
		return false
	}
}

// Attendable statuses are the only ones that may carry a QR credential.
func IsAttendable(status string) bool {
	return status == StatusApproved || status == StatusCheckedIn
}

// Settlement aggregates the paid tickets of one event for payout.
type Settlement struct {
	TicketCount     int64           `json:"ticket_count"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	PlatformFees    decimal.Decimal `json:"platform_fees"`
	ProcessorFees   decimal.Decimal `json:"processor_fees"`
	OrganizerAmount decimal.Decimal `json:"organizer_amount"`
}
