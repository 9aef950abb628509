package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/payout/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payout *domain.Payout) error {
	return db.WithContext(ctx).Create(payout).Error
}

func (r *repo) FindByEvent(ctx context.Context, db *gorm.DB, eventID snowflake.ID) (*domain.Payout, error) {
	var payout domain.Payout
	err := db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Take(&payout).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

func (r *repo) ListByOrganizer(ctx context.Context, db *gorm.DB, organizerID snowflake.ID) ([]*domain.Payout, error) {
	var payouts []*domain.Payout
	err := db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at desc, id desc").
		Find(&payouts).Error
	if err != nil {
		return nil, err
	}
	return payouts, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) error {
	return db.WithContext(ctx).
		Model(&domain.Payout{}).
		Where("id = ?", id).
		Update("monime_payout_status", status).Error
}
