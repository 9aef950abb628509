package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/clock"
	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
	"github.com/gatherup-events/gatherup/internal/organizerctx"
	"github.com/gatherup-events/gatherup/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("profile.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.Profile, error) {
	organizerID, ok := organizerctx.OrganizerIDFromContext(ctx)
	if !ok || organizerID == 0 {
		return domain.Profile{}, eventdomain.ErrInvalidOrganizer
	}

	profile, err := s.repo.FindByUser(ctx, s.db, organizerID)
	if err != nil {
		return domain.Profile{}, err
	}
	if profile == nil {
		return domain.Profile{}, domain.ErrNotFound
	}
	return *profile, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProfileRequest) (domain.Profile, error) {
	organizerID, ok := organizerctx.OrganizerIDFromContext(ctx)
	if !ok || organizerID == 0 {
		return domain.Profile{}, eventdomain.ErrInvalidOrganizer
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Profile{}, domain.ErrInvalidEmail
	}
	phone := strings.TrimSpace(req.MonimePhone)
	if phone != "" && !validPhone(phone) {
		return domain.Profile{}, domain.ErrInvalidPhone
	}

	now := s.clock.Now()
	profile := domain.Profile{
		ID:          s.genID.Generate(),
		UserID:      organizerID,
		FullName:    strings.TrimSpace(req.FullName),
		Email:       email,
		MonimePhone: phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Upsert(ctx, s.db, &profile); err != nil {
		return domain.Profile{}, err
	}

	saved, err := s.repo.FindByUser(ctx, s.db, organizerID)
	if err != nil {
		return domain.Profile{}, err
	}
	if saved == nil {
		return domain.Profile{}, domain.ErrNotFound
	}

	s.log.Info("profile saved",
		zap.String("user_id", organizerID.String()),
		zap.Bool("payout_phone_set", saved.MonimePhone != ""),
	)
	return *saved, nil
}

func validPhone(phone string) bool {
	if len(phone) < 8 || len(phone) > 16 {
		return false
	}
	for i, r := range phone {
		if r == '+' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
