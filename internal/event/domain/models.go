package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

const (
	FeeBearerOrganizer = "organizer"
	FeeBearerBuyer     = "buyer"
)

type Event struct {
	ID               snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrganizerID      snowflake.ID    `gorm:"not null;index" json:"organizer_id"`
	OrganizationID   snowflake.ID    `gorm:"index" json:"organization_id"`
	Title            string          `gorm:"not null" json:"title"`
	Slug             string          `gorm:"not null;uniqueIndex" json:"slug"`
	Venue            string          `json:"venue,omitempty"`
	StartsAt         time.Time       `gorm:"not null" json:"starts_at"`
	EndsAt           time.Time       `gorm:"not null;index" json:"ends_at"`
	Capacity         int             `gorm:"not null" json:"capacity"`
	IsPaid           bool            `gorm:"not null" json:"is_paid"`
	Price            decimal.Decimal `gorm:"type:numeric(14,2)" json:"price"`
	FeeBearer        string          `gorm:"not null;default:buyer" json:"fee_bearer"`
	RequiresApproval bool            `gorm:"not null;default:false" json:"requires_approval"`
	Status           string          `gorm:"not null;default:active;index" json:"status"`
	PayoutCompleted  bool            `gorm:"not null;default:false" json:"payout_completed"`
	PINHash          string          `gorm:"column:pin_hash" json:"-"`
	CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// HasPIN reports whether a management PIN is set on the event.
func (e *Event) HasPIN() bool {
	return e.PINHash != ""
}
