package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/clock"
	"github.com/gatherup-events/gatherup/internal/event/domain"
	"github.com/gatherup-events/gatherup/internal/organizerctx"
	"github.com/gatherup-events/gatherup/pkg/db"
	"github.com/gosimple/slug"
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
		log:   p.Log.Named("event.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEventRequest) (domain.Event, error) {
	organizerID, ok := organizerctx.OrganizerIDFromContext(ctx)
	if !ok || organizerID == 0 {
		return domain.Event{}, domain.ErrInvalidOrganizer
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Event{}, domain.ErrInvalidTitle
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() || !req.EndsAt.After(req.StartsAt) {
		return domain.Event{}, domain.ErrInvalidSchedule
	}
	if req.Capacity <= 0 {
		return domain.Event{}, domain.ErrInvalidCapacity
	}

	feeBearer := strings.TrimSpace(req.FeeBearer)
	if feeBearer == "" {
		feeBearer = domain.FeeBearerBuyer
	}
	if feeBearer != domain.FeeBearerBuyer && feeBearer != domain.FeeBearerOrganizer {
		return domain.Event{}, domain.ErrInvalidFeeBearer
	}

	if req.IsPaid && req.Price.IsNegative() {
		return domain.Event{}, domain.ErrInvalidPrice
	}
	if req.IsPaid && req.Price.IsZero() {
		return domain.Event{}, domain.ErrInvalidPrice
	}

	var orgID snowflake.ID
	if raw := strings.TrimSpace(req.OrganizationID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.Event{}, domain.ErrInvalidID
		}
		orgID = parsed
	}

	now := s.clock.Now()
	id := s.genID.Generate()
	event := domain.Event{
		ID:               id,
		OrganizerID:      organizerID,
		OrganizationID:   orgID,
		Title:            title,
		Slug:             slug.Make(title) + "-" + id.Base36(),
		Venue:            strings.TrimSpace(req.Venue),
		StartsAt:         req.StartsAt.UTC(),
		EndsAt:           req.EndsAt.UTC(),
		Capacity:         req.Capacity,
		IsPaid:           req.IsPaid,
		Price:            req.Price,
		FeeBearer:        feeBearer,
		RequiresApproval: req.RequiresApproval,
		Status:           domain.StatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &event); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Event{}, domain.ErrInvalidTitle
		}
		return domain.Event{}, err
	}

	s.log.Info("event created",
		zap.String("event_id", event.ID.String()),
		zap.String("organizer_id", organizerID.String()),
		zap.Bool("is_paid", event.IsPaid),
	)
	return event, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetEventRequest) (domain.Event, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Event{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Event{}, err
	}
	if item == nil {
		return domain.Event{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetBySlug(ctx context.Context, eventSlug string) (domain.Event, error) {
	eventSlug = strings.TrimSpace(eventSlug)
	if eventSlug == "" {
		return domain.Event{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindBySlug(ctx, s.db, eventSlug)
	if err != nil {
		return domain.Event{}, err
	}
	if item == nil {
		return domain.Event{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ListMine(ctx context.Context) ([]domain.Event, error) {
	organizerID, ok := organizerctx.OrganizerIDFromContext(ctx)
	if !ok || organizerID == 0 {
		return nil, domain.ErrInvalidOrganizer
	}

	items, err := s.repo.ListByOrganizer(ctx, s.db, organizerID)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		events = append(events, *item)
	}
	return events, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
