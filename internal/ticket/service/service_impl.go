package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/clock"
	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
	"github.com/gatherup-events/gatherup/internal/observability/metrics"
	"github.com/gatherup-events/gatherup/internal/organizerctx"
	"github.com/gatherup-events/gatherup/internal/ticket/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	EventRepo eventdomain.Repository
	Config    Config `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	cfg       Config
	repo      domain.Repository
	eventRepo eventdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("ticket.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		cfg:       p.Config.withDefaults(),
		repo:      p.Repo,
		eventRepo: p.EventRepo,
	}
}

func (s *Service) Issue(ctx context.Context, req domain.IssueTicketRequest) (domain.Ticket, error) {
	event, err := s.loadEvent(ctx, req.EventID)
	if err != nil {
		return domain.Ticket{}, err
	}

	now := s.clock.Now()
	if event.Status == eventdomain.StatusEnded || event.EndsAt.Before(now) {
		return domain.Ticket{}, domain.ErrEventEnded
	}

	name := strings.TrimSpace(req.AttendeeName)
	email := strings.TrimSpace(req.AttendeeEmail)
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return domain.Ticket{}, domain.ErrInvalidAttendee
	}

	fees := domain.ComputeFees(event)
	ticket := domain.Ticket{
		ID:              s.genID.Generate(),
		EventID:         event.ID,
		AttendeeName:    name,
		AttendeeEmail:   email,
		AmountPaid:      fees.AmountPaid,
		PlatformFee:     fees.PlatformFee,
		ProcessorFee:    fees.ProcessorFee,
		OrganizerAmount: fees.OrganizerAmount,
		PaymentStatus:   domain.PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Paid events always start at unpaid: the lifecycle advances only once
	// the gateway confirms payment. Free events skip the payment leg.
	switch {
	case event.IsPaid:
		ticket.Status = domain.StatusUnpaid
	case event.RequiresApproval:
		ticket.Status = domain.StatusPending
	default:
		ticket.Status = domain.StatusApproved
		ticket.QRToken = uuid.NewString()
	}

	// Capacity rides in the insert statement itself so two concurrent buyers
	// cannot both pass a stale count.
	rows, err := s.repo.InsertWithinCapacity(ctx, s.db, &ticket, event.Capacity)
	if err != nil {
		return domain.Ticket{}, err
	}
	if rows == 0 {
		return domain.Ticket{}, domain.ErrEventFull
	}

	s.log.Info("ticket issued",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("event_id", event.ID.String()),
		zap.String("status", ticket.Status),
	)
	return ticket, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Ticket, error) {
	ticketID, err := parseID(id)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket, err := s.repo.FindByID(ctx, s.db, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return *ticket, nil
}

// ListByEvent returns the attendee list for the caller's own event. The
// rows carry live QR tokens, so cross-organizer reads are refused.
func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]domain.Ticket, error) {
	organizerID, ok := organizerctx.OrganizerIDFromContext(ctx)
	if !ok || organizerID == 0 {
		return nil, eventdomain.ErrInvalidOrganizer
	}

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, eventdomain.ErrNotOrganizer
	}

	items, err := s.repo.ListByEvent(ctx, s.db, event.ID)
	if err != nil {
		return nil, err
	}
	tickets := make([]domain.Ticket, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		tickets = append(tickets, *item)
	}
	return tickets, nil
}

func (s *Service) HandlePaymentSuccess(ctx context.Context, ticketID string) (domain.Ticket, error) {
	id, err := parseID(ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}

	ticket, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}

	event, err := s.eventRepo.FindByID(ctx, s.db, ticket.EventID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if event == nil {
		return domain.Ticket{}, domain.ErrEventNotFound
	}
	if !event.IsPaid {
		return domain.Ticket{}, domain.ErrPaymentNotAllowed
	}

	now := s.clock.Now()
	var rows int64
	if event.RequiresApproval {
		rows, err = s.repo.MarkPaymentPending(ctx, s.db, id, now)
	} else {
		rows, err = s.repo.MarkPaymentApproved(ctx, s.db, id, uuid.NewString(), now)
	}
	if err != nil {
		return domain.Ticket{}, err
	}

	if rows == 0 {
		// Duplicate delivery. An already-advanced ticket keeps its state and
		// QR token so previously emailed codes stay valid.
		switch ticket.Status {
		case domain.StatusApproved, domain.StatusCheckedIn, domain.StatusPending:
			return *ticket, nil
		default:
			return domain.Ticket{}, domain.ErrAlreadyFinal
		}
	}

	updated, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if updated == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}

	s.log.Info("payment confirmed",
		zap.String("ticket_id", updated.ID.String()),
		zap.String("status", updated.Status),
	)
	return *updated, nil
}

func (s *Service) HandlePaymentCancel(ctx context.Context, ticketID string) error {
	id, err := parseID(ticketID)
	if err != nil {
		return err
	}

	ticket, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if ticket == nil {
		return domain.ErrNotFound
	}

	// Only the payment axis moves; the ticket stays unpaid so the buyer can
	// retry checkout.
	_, err = s.repo.MarkPaymentCancelled(ctx, s.db, id, s.clock.Now())
	return err
}

func (s *Service) Approve(ctx context.Context, ticketID string) (domain.Ticket, error) {
	return s.review(ctx, ticketID, true)
}

func (s *Service) Reject(ctx context.Context, ticketID string) (domain.Ticket, error) {
	return s.review(ctx, ticketID, false)
}

func (s *Service) review(ctx context.Context, ticketID string, approve bool) (domain.Ticket, error) {
	organizerID, ok := organizerctx.OrganizerIDFromContext(ctx)
	if !ok || organizerID == 0 {
		return domain.Ticket{}, eventdomain.ErrInvalidOrganizer
	}

	id, err := parseID(ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}

	ticket, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}

	event, err := s.eventRepo.FindByID(ctx, s.db, ticket.EventID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if event == nil {
		return domain.Ticket{}, domain.ErrEventNotFound
	}
	if event.OrganizerID != organizerID {
		return domain.Ticket{}, eventdomain.ErrNotOrganizer
	}

	now := s.clock.Now()
	var rows int64
	if approve {
		rows, err = s.repo.MarkApproved(ctx, s.db, id, uuid.NewString(), now)
	} else {
		rows, err = s.repo.MarkRejected(ctx, s.db, id, now)
	}
	if err != nil {
		return domain.Ticket{}, err
	}
	if rows == 0 {
		return domain.Ticket{}, domain.ErrNotPending
	}

	updated, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if updated == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return *updated, nil
}

// CheckIn redeems a QR token. Only the organizer of the ticket's event may
// redeem it; a leaked token is useless to anyone else.
func (s *Service) CheckIn(ctx context.Context, qrToken string) (domain.Ticket, error) {
	organizerID, ok := organizerctx.OrganizerIDFromContext(ctx)
	if !ok || organizerID == 0 {
		return domain.Ticket{}, eventdomain.ErrInvalidOrganizer
	}

	qrToken = strings.TrimSpace(qrToken)
	if qrToken == "" {
		return domain.Ticket{}, domain.ErrInvalidID
	}

	ticket, err := s.repo.FindByQRToken(ctx, s.db, qrToken)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}

	event, err := s.eventRepo.FindByID(ctx, s.db, ticket.EventID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if event == nil {
		return domain.Ticket{}, domain.ErrEventNotFound
	}
	if event.OrganizerID != organizerID {
		return domain.Ticket{}, eventdomain.ErrNotOrganizer
	}

	rows, err := s.repo.MarkCheckedIn(ctx, s.db, ticket.ID, s.clock.Now())
	if err != nil {
		return domain.Ticket{}, err
	}
	if rows == 0 {
		// A second scan is credential reuse or an error condition; the
		// original check-in timestamp is preserved.
		if ticket.Status == domain.StatusCheckedIn {
			return domain.Ticket{}, domain.ErrAlreadyCheckedIn
		}
		return domain.Ticket{}, domain.ErrNotApproved
	}

	updated, err := s.repo.FindByID(ctx, s.db, ticket.ID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if updated == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}

	metrics.IncCheckin()
	s.log.Info("ticket checked in", zap.String("ticket_id", updated.ID.String()))
	return *updated, nil
}

// ExpireStale runs the periodic sweep. The passes are independent and a
// failing pass does not block the others; overlapping invocations are safe
// because expiring an expired ticket matches no rows.
func (s *Service) ExpireStale(ctx context.Context) (domain.SweepResult, error) {
	now := s.clock.Now()
	var result domain.SweepResult
	var errs []error

	ended, err := s.eventRepo.MarkEnded(ctx, s.db, now)
	if err != nil {
		errs = append(errs, err)
	} else {
		result.EventsEnded = ended
	}

	abandoned, err := s.repo.ExpireAbandoned(ctx, s.db, now.Add(-s.cfg.AbandonedTTL), now)
	if err != nil {
		errs = append(errs, err)
	} else {
		result.AbandonedExpired = abandoned
		metrics.IncTicketsExpired("abandoned", abandoned)
	}

	postEvent, err := s.repo.ExpirePostEvent(ctx, s.db, now.Add(-s.cfg.PostEventGrace), now)
	if err != nil {
		errs = append(errs, err)
	} else {
		result.PostEventExpired = postEvent
		metrics.IncTicketsExpired("post_event", postEvent)
	}

	result.Total = result.AbandonedExpired + result.PostEventExpired
	if len(errs) > 0 {
		s.log.Warn("expiry sweep finished with errors",
			zap.Int64("expired", result.Total),
			zap.Int("failed_passes", len(errs)),
		)
		return result, errors.Join(errs...)
	}

	s.log.Info("expiry sweep finished",
		zap.Int64("events_ended", result.EventsEnded),
		zap.Int64("abandoned_expired", result.AbandonedExpired),
		zap.Int64("post_event_expired", result.PostEventExpired),
	)
	return result, nil
}

func (s *Service) loadEvent(ctx context.Context, rawID string) (*eventdomain.Event, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	event, err := s.eventRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
