package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/event/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, event *domain.Event) error {
	return db.WithContext(ctx).Create(event).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Event, error) {
	var event domain.Event
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Event, error) {
	var event domain.Event
	err := db.WithContext(ctx).
		Where("slug = ?", slug).
		Take(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *repo) ListByOrganizer(ctx context.Context, db *gorm.DB, organizerID snowflake.ID) ([]*domain.Event, error) {
	var events []*domain.Event
	err := db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("starts_at desc, id desc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repo) MarkEnded(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("status = ? AND ends_at < ?", domain.StatusActive, now).
		Updates(map[string]any{"status": domain.StatusEnded, "updated_at": now})
	return res.RowsAffected, res.Error
}

func (r *repo) FindSettleCandidates(ctx context.Context, db *gorm.DB, cutoff time.Time) ([]*domain.Event, error) {
	var events []*domain.Event
	err := db.WithContext(ctx).
		Where("status = ? AND payout_completed = ? AND ends_at < ?", domain.StatusEnded, false, cutoff).
		Order("ends_at asc, id asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repo) SetPayoutCompleted(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("id = ? AND payout_completed = ?", id, false).
		Update("payout_completed", true)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdatePINHash(ctx context.Context, db *gorm.DB, id snowflake.ID, hash string) error {
	return db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("id = ?", id).
		Update("pin_hash", hash).Error
}
