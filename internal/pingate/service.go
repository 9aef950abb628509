package pingate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/clock"
	"github.com/gatherup-events/gatherup/internal/config"
	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
	"github.com/gatherup-events/gatherup/internal/organizerctx"
	"github.com/gatherup-events/gatherup/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidPIN      = errors.New("invalid_pin")
	ErrPINNotSet       = errors.New("pin_not_set")
	ErrPINMismatch     = errors.New("pin_mismatch")
	ErrInvalidGrant    = errors.New("invalid_grant")
	ErrTooManyAttempts = errors.New("too_many_pin_attempts")
	ErrNoGrantSecret   = errors.New("pin_grant_secret_not_configured")
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Cfg       config.Config
	Clock     clock.Clock
	EventRepo eventdomain.Repository
	Limiter   *ratelimit.AttemptLimiter `optional:"true"`
}

// Service is the secondary access gate for event management pages. It sits
// on top of primary authentication and has no bearing on tickets or payouts.
type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	eventRepo eventdomain.Repository
	limiter   *ratelimit.AttemptLimiter
	secret    []byte
	grantTTL  time.Duration
}

func New(p Params) (*Service, error) {
	// An empty secret would make every grant forgeable; refuse to start.
	secret := strings.TrimSpace(p.Cfg.PinGrantSecret)
	if secret == "" {
		return nil, ErrNoGrantSecret
	}

	ttl := p.Cfg.PinGrantTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("pingate"),
		clock:     p.Clock,
		eventRepo: p.EventRepo,
		limiter:   p.Limiter,
		secret:    []byte(secret),
		grantTTL:  ttl,
	}, nil
}

// Set installs or replaces the event's management PIN. Organizer only;
// 4 to 8 digits.
func (s *Service) Set(ctx context.Context, eventID, pin string) error {
	event, err := s.loadOwnedEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !validPIN(pin) {
		return ErrInvalidPIN
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.eventRepo.UpdatePINHash(ctx, s.db, event.ID, string(hash)); err != nil {
		return err
	}

	s.log.Info("event pin set", zap.String("event_id", event.ID.String()))
	return nil
}

// Remove clears the PIN, but only when the caller proves knowledge of the
// current one; a mismatch leaves the PIN in place.
func (s *Service) Remove(ctx context.Context, eventID, currentPIN string) error {
	event, err := s.loadOwnedEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.HasPIN() {
		return ErrPINNotSet
	}
	if bcrypt.CompareHashAndPassword([]byte(event.PINHash), []byte(currentPIN)) != nil {
		return ErrPINMismatch
	}

	if err := s.eventRepo.UpdatePINHash(ctx, s.db, event.ID, ""); err != nil {
		return err
	}
	s.log.Info("event pin removed", zap.String("event_id", event.ID.String()))
	return nil
}

// Verify checks the PIN and mints a time-bounded grant on success.
func (s *Service) Verify(ctx context.Context, eventID, pin, clientKey string) (Grant, error) {
	id, err := parseEventID(eventID)
	if err != nil {
		return Grant{}, err
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, "pingate:"+id.String()+":"+clientKey)
		if err != nil {
			s.log.Warn("pin attempt limiter unavailable", zap.Error(err))
		} else if !allowed {
			return Grant{}, ErrTooManyAttempts
		}
	}

	event, err := s.eventRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return Grant{}, err
	}
	if event == nil {
		return Grant{}, eventdomain.ErrNotFound
	}
	if !event.HasPIN() {
		return Grant{}, ErrPINNotSet
	}
	if bcrypt.CompareHashAndPassword([]byte(event.PINHash), []byte(pin)) != nil {
		return Grant{}, ErrPINMismatch
	}

	now := s.clock.Now()
	return mintGrant(s.secret, event.ID, now.Add(s.grantTTL)), nil
}

// Check validates a previously minted grant for the event. Events without
// a PIN are not gated and always pass.
func (s *Service) Check(ctx context.Context, eventID, token string) error {
	id, err := parseEventID(eventID)
	if err != nil {
		return err
	}
	event, err := s.eventRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if event == nil {
		return eventdomain.ErrNotFound
	}
	if !event.HasPIN() {
		return nil
	}
	if !verifyGrant(s.secret, id, token, s.clock.Now()) {
		return ErrInvalidGrant
	}
	return nil
}

func (s *Service) loadOwnedEvent(ctx context.Context, eventID string) (*eventdomain.Event, error) {
	organizerID, ok := organizerctx.OrganizerIDFromContext(ctx)
	if !ok || organizerID == 0 {
		return nil, eventdomain.ErrInvalidOrganizer
	}

	id, err := parseEventID(eventID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, eventdomain.ErrNotFound
	}
	if event.OrganizerID != organizerID {
		return nil, eventdomain.ErrNotOrganizer
	}
	return event, nil
}

func validPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 8 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseEventID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, eventdomain.ErrInvalidID
	}
	return id, nil
}
