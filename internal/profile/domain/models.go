package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Profile carries the organizer-facing identity, most importantly the
// phone-number-keyed payout destination used by the settlement batcher.
type Profile struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID `gorm:"not null;uniqueIndex" json:"user_id"`
	FullName    string       `json:"full_name"`
	Email       string       `json:"email"`
	MonimePhone string       `gorm:"column:monime_phone" json:"monime_phone,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

type Repository interface {
	FindByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Profile, error)
	Upsert(ctx context.Context, db *gorm.DB, profile *Profile) error
}

var ErrNotFound = errors.New("profile_not_found")
