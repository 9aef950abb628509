package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Payout is a single aggregated disbursement of net proceeds to an event
// organizer. EventID is unique: at most one payout per event, ever.
type Payout struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	EventID          snowflake.ID      `gorm:"not null;uniqueIndex" json:"event_id"`
	OrganizerID      snowflake.ID      `gorm:"not null;index" json:"organizer_id"`
	TotalTicketsSold int64             `gorm:"not null" json:"total_tickets_sold"`
	GrossAmount      decimal.Decimal   `gorm:"type:numeric(14,2)" json:"gross_amount"`
	PlatformFees     decimal.Decimal   `gorm:"type:numeric(14,2)" json:"platform_fees"`
	MonimeFees       decimal.Decimal   `gorm:"column:monime_fees;type:numeric(14,2)" json:"monime_fees"`
	NetPayout        decimal.Decimal   `gorm:"type:numeric(14,2)" json:"net_payout"`
	MonimePayoutID   string            `gorm:"column:monime_payout_id" json:"monime_payout_id"`
	RecipientPhone   string            `gorm:"not null" json:"recipient_phone"`
	Status           string            `gorm:"column:monime_payout_status;not null;default:processing" json:"monime_payout_status"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Payout) TableName() string {
	return "payouts"
}
