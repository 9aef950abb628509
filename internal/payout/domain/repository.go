package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payout *Payout) error
	FindByEvent(ctx context.Context, db *gorm.DB, eventID snowflake.ID) (*Payout, error)
	ListByOrganizer(ctx context.Context, db *gorm.DB, organizerID snowflake.ID) ([]*Payout, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) error
}
