package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/profile/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Profile, error) {
	var profile domain.Profile
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "monime_phone", "updated_at"}),
		}).
		Create(profile).Error
}
