package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/clock"
	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
	"github.com/gatherup-events/gatherup/internal/monime"
	"github.com/gatherup-events/gatherup/internal/observability/metrics"
	"github.com/gatherup-events/gatherup/internal/organizerctx"
	"github.com/gatherup-events/gatherup/internal/payout/domain"
	profiledomain "github.com/gatherup-events/gatherup/internal/profile/domain"
	ticketdomain "github.com/gatherup-events/gatherup/internal/ticket/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Gateway     monime.Client
	Repo        domain.Repository
	EventRepo   eventdomain.Repository
	TicketRepo  ticketdomain.Repository
	ProfileRepo profiledomain.Repository
	Config      Config `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	cfg         Config
	gateway     monime.Client
	repo        domain.Repository
	eventRepo   eventdomain.Repository
	ticketRepo  ticketdomain.Repository
	profileRepo profiledomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("payout.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		cfg:         p.Config.withDefaults(),
		gateway:     p.Gateway,
		repo:        p.Repo,
		eventRepo:   p.EventRepo,
		ticketRepo:  p.TicketRepo,
		profileRepo: p.ProfileRepo,
	}
}

// Settle iterates eligible events and settles each one independently. A
// per-event failure is counted and logged, never propagated to the batch.
func (s *Service) Settle(ctx context.Context) (domain.SettleResult, error) {
	cutoff := s.clock.Now().Add(-s.cfg.SettleDelay)
	candidates, err := s.eventRepo.FindSettleCandidates(ctx, s.db, cutoff)
	if err != nil {
		return domain.SettleResult{}, err
	}

	result := domain.SettleResult{Total: len(candidates)}
	for _, event := range candidates {
		if event == nil {
			continue
		}
		settled, err := s.settleEvent(ctx, event)
		if err != nil {
			result.Failed++
			metrics.IncPayoutProcessed("failed")
			s.log.Warn("event payout failed",
				zap.String("event_id", event.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if settled {
			result.Processed++
			metrics.IncPayoutProcessed("processed")
		} else {
			metrics.IncPayoutProcessed("skipped")
		}
	}

	s.log.Info("payout batch finished",
		zap.Int("total", result.Total),
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// settleEvent is all-or-nothing for one event: no payout record is written
// and the event flag stays clear unless the gateway accepted the payout.
func (s *Service) settleEvent(ctx context.Context, event *eventdomain.Event) (bool, error) {
	settlement, err := s.ticketRepo.SumPaidByEvent(ctx, s.db, event.ID)
	if err != nil {
		return false, err
	}
	if settlement.TicketCount == 0 {
		// Nothing sold; leave the event for later runs in case a late
		// payment confirmation arrives.
		return false, nil
	}

	profile, err := s.profileRepo.FindByUser(ctx, s.db, event.OrganizerID)
	if err != nil {
		return false, err
	}
	if profile == nil || strings.TrimSpace(profile.MonimePhone) == "" {
		return false, domain.ErrMissingRecipient
	}

	gatewayPayout, err := s.gateway.CreatePayout(ctx, monime.PayoutRequest{
		Amount:         settlement.OrganizerAmount,
		RecipientPhone: profile.MonimePhone,
		IdempotencyKey: event.ID.String(),
		Metadata: map[string]string{
			"event_id":     event.ID.String(),
			"organizer_id": event.OrganizerID.String(),
			"ticket_count": strconv.FormatInt(settlement.TicketCount, 10),
		},
	})
	if err != nil {
		return false, err
	}

	now := s.clock.Now()
	payout := domain.Payout{
		ID:               s.genID.Generate(),
		EventID:          event.ID,
		OrganizerID:      event.OrganizerID,
		TotalTicketsSold: settlement.TicketCount,
		GrossAmount:      settlement.GrossAmount,
		PlatformFees:     settlement.PlatformFees,
		MonimeFees:       settlement.ProcessorFees,
		NetPayout:        settlement.OrganizerAmount,
		MonimePayoutID:   gatewayPayout.ID,
		RecipientPhone:   profile.MonimePhone,
		Status:           domain.StatusProcessing,
		Metadata: datatypes.JSONMap{
			"event_title":  event.Title,
			"ticket_count": settlement.TicketCount,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &payout); err != nil {
		return false, err
	}

	if _, err := s.eventRepo.SetPayoutCompleted(ctx, s.db, event.ID); err != nil {
		// The payout row exists; the unique event_id index keeps re-runs
		// from paying twice even though the flag write failed.
		return false, err
	}

	s.log.Info("event settled",
		zap.String("event_id", event.ID.String()),
		zap.String("payout_id", payout.ID.String()),
		zap.String("net_payout", payout.NetPayout.String()),
		zap.Int64("tickets", payout.TotalTicketsSold),
	)
	return true, nil
}

// GetByEvent returns the payout for the caller's own event. The record
// carries the recipient phone, so cross-organizer reads are refused.
func (s *Service) GetByEvent(ctx context.Context, eventID string) (domain.Payout, error) {
	organizerID, ok := organizerctx.OrganizerIDFromContext(ctx)
	if !ok || organizerID == 0 {
		return domain.Payout{}, eventdomain.ErrInvalidOrganizer
	}

	id, err := snowflake.ParseString(strings.TrimSpace(eventID))
	if err != nil || id == 0 {
		return domain.Payout{}, domain.ErrInvalidID
	}

	payout, err := s.repo.FindByEvent(ctx, s.db, id)
	if err != nil {
		return domain.Payout{}, err
	}
	if payout == nil {
		return domain.Payout{}, domain.ErrNotFound
	}
	if payout.OrganizerID != organizerID {
		return domain.Payout{}, eventdomain.ErrNotOrganizer
	}
	return *payout, nil
}

func (s *Service) HandleGatewayStatus(ctx context.Context, eventID, status string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(eventID))
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	var mapped string
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed", "success":
		mapped = domain.StatusCompleted
	case "failed", "rejected":
		mapped = domain.StatusFailed
	case "processing", "pending":
		mapped = domain.StatusProcessing
	default:
		return domain.ErrInvalidStatus
	}

	payout, err := s.repo.FindByEvent(ctx, s.db, id)
	if err != nil {
		return err
	}
	if payout == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.UpdateStatus(ctx, s.db, payout.ID, mapped); err != nil {
		return err
	}
	s.log.Info("payout status updated",
		zap.String("payout_id", payout.ID.String()),
		zap.String("status", mapped),
	)
	return nil
}

func (s *Service) ListMine(ctx context.Context) ([]domain.Payout, error) {
	organizerID, ok := organizerctx.OrganizerIDFromContext(ctx)
	if !ok || organizerID == 0 {
		return nil, eventdomain.ErrInvalidOrganizer
	}

	items, err := s.repo.ListByOrganizer(ctx, s.db, organizerID)
	if err != nil {
		return nil, err
	}
	payouts := make([]domain.Payout, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payouts = append(payouts, *item)
	}
	return payouts, nil
}
