package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/clock"
	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
	eventrepository "github.com/gatherup-events/gatherup/internal/event/repository"
	"github.com/gatherup-events/gatherup/internal/monime"
	"github.com/gatherup-events/gatherup/internal/organizerctx"
	"github.com/gatherup-events/gatherup/internal/payout/domain"
	payoutrepository "github.com/gatherup-events/gatherup/internal/payout/repository"
	profiledomain "github.com/gatherup-events/gatherup/internal/profile/domain"
	profilerepository "github.com/gatherup-events/gatherup/internal/profile/repository"
	ticketdomain "github.com/gatherup-events/gatherup/internal/ticket/domain"
	ticketrepository "github.com/gatherup-events/gatherup/internal/ticket/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubGateway struct {
	requests []monime.PayoutRequest
	err      error
}

func (g *stubGateway) CreatePayout(ctx context.Context, req monime.PayoutRequest) (*monime.Payout, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.requests = append(g.requests, req)
	return &monime.Payout{ID: fmt.Sprintf("mp_%d", len(g.requests)), Status: "processing"}, nil
}

type fixture struct {
	svc     domain.Service
	db      *gorm.DB
	clock   *clock.FakeClock
	node    *snowflake.Node
	gateway *stubGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&eventdomain.Event{},
		&ticketdomain.Ticket{},
		&profiledomain.Profile{},
		&domain.Payout{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(baseTime)
	gateway := &stubGateway{}

	svc := New(Params{
		DB:          db,
		Log:         zaptest.NewLogger(t),
		GenID:       node,
		Clock:       fc,
		Gateway:     gateway,
		Repo:        payoutrepository.Provide(),
		EventRepo:   eventrepository.Provide(),
		TicketRepo:  ticketrepository.Provide(),
		ProfileRepo: profilerepository.Provide(),
	})
	return &fixture{svc: svc, db: db, clock: fc, node: node, gateway: gateway}
}

// seedSettledEvent creates an ended paid event past the settlement delay,
// with paid tickets priced so each contributes 100.00 gross and 94.00 net.
func (f *fixture) seedSettledEvent(t *testing.T, paidTickets int, withPhone bool) *eventdomain.Event {
	t.Helper()

	organizerID := f.node.Generate()
	event := &eventdomain.Event{
		ID:          f.node.Generate(),
		OrganizerID: organizerID,
		Title:       "Closing Gala",
		Slug:        "closing-gala-" + f.node.Generate().Base36(),
		StartsAt:    f.clock.Now().Add(-5 * 24 * time.Hour),
		EndsAt:      f.clock.Now().Add(-4 * 24 * time.Hour),
		Capacity:    200,
		IsPaid:      true,
		Price:       decimal.RequireFromString("100.00"),
		FeeBearer:   eventdomain.FeeBearerOrganizer,
		Status:      eventdomain.StatusEnded,
	}
	require.NoError(t, f.db.Create(event).Error)

	phone := ""
	if withPhone {
		phone = "+23276000001"
	}
	require.NoError(t, f.db.Create(&profiledomain.Profile{
		ID:          f.node.Generate(),
		UserID:      organizerID,
		FullName:    "Org Anizer",
		Email:       "org@example.com",
		MonimePhone: phone,
	}).Error)

	for i := 0; i < paidTickets; i++ {
		require.NoError(t, f.db.Create(&ticketdomain.Ticket{
			ID:              f.node.Generate(),
			EventID:         event.ID,
			AttendeeName:    fmt.Sprintf("Guest %d", i),
			AttendeeEmail:   fmt.Sprintf("guest%d@example.com", i),
			AmountPaid:      decimal.RequireFromString("100.00"),
			PlatformFee:     decimal.RequireFromString("5.00"),
			ProcessorFee:    decimal.RequireFromString("1.00"),
			OrganizerAmount: decimal.RequireFromString("94.00"),
			Status:          ticketdomain.StatusCheckedIn,
			PaymentStatus:   ticketdomain.PaymentPaid,
		}).Error)
	}
	return event
}

func ownerContext(event *eventdomain.Event) context.Context {
	return organizerctx.WithOrganizerID(context.Background(), event.OrganizerID)
}

func TestSettle_AggregatesAndPaysOnce(t *testing.T) {
	f := newFixture(t)
	event := f.seedSettledEvent(t, 10, true)

	// One unpaid straggler must not count toward the settlement.
	require.NoError(t, f.db.Create(&ticketdomain.Ticket{
		ID:            f.node.Generate(),
		EventID:       event.ID,
		AttendeeName:  "Straggler",
		AttendeeEmail: "straggler@example.com",
		Status:        ticketdomain.StatusExpired,
		PaymentStatus: ticketdomain.PaymentCancelled,
	}).Error)

	result, err := f.svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Failed)

	require.Len(t, f.gateway.requests, 1)
	assert.True(t, f.gateway.requests[0].Amount.Equal(decimal.RequireFromString("940.00")))
	assert.Equal(t, event.ID.String(), f.gateway.requests[0].IdempotencyKey)

	payout, err := f.svc.GetByEvent(ownerContext(event), event.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(10), payout.TotalTicketsSold)
	assert.True(t, payout.GrossAmount.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, payout.PlatformFees.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, payout.MonimeFees.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, payout.NetPayout.Equal(decimal.RequireFromString("940.00")))
	assert.Equal(t, domain.StatusProcessing, payout.Status)

	var updated eventdomain.Event
	require.NoError(t, f.db.First(&updated, "id = ?", event.ID).Error)
	assert.True(t, updated.PayoutCompleted)
}

func TestSettle_RerunDoesNotPayTwice(t *testing.T) {
	f := newFixture(t)
	f.seedSettledEvent(t, 3, true)

	first, err := f.svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	second, err := f.svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, 0, second.Total)
	assert.Len(t, f.gateway.requests, 1)
}

func TestSettle_ZeroSalesSkippedWithoutFlag(t *testing.T) {
	f := newFixture(t)
	event := f.seedSettledEvent(t, 0, true)

	result, err := f.svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 1, result.Total)

	// The event stays eligible in case a late payment confirmation lands.
	var updated eventdomain.Event
	require.NoError(t, f.db.First(&updated, "id = ?", event.ID).Error)
	assert.False(t, updated.PayoutCompleted)
}

func TestSettle_EventFailureDoesNotAbortBatch(t *testing.T) {
	f := newFixture(t)
	noPhone := f.seedSettledEvent(t, 2, false)
	healthy := f.seedSettledEvent(t, 2, true)

	result, err := f.svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Total)

	_, err = f.svc.GetByEvent(ownerContext(healthy), healthy.ID.String())
	assert.NoError(t, err)
	_, err = f.svc.GetByEvent(ownerContext(noPhone), noPhone.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var updated eventdomain.Event
	require.NoError(t, f.db.First(&updated, "id = ?", noPhone.ID).Error)
	assert.False(t, updated.PayoutCompleted)
}

func TestSettle_GatewayFailureLeavesEventEligible(t *testing.T) {
	f := newFixture(t)
	event := f.seedSettledEvent(t, 2, true)
	f.gateway.err = errors.New("gateway down")

	result, err := f.svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	_, err = f.svc.GetByEvent(ownerContext(event), event.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Retry after the gateway recovers.
	f.gateway.err = nil
	result, err = f.svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
}

func TestGetByEvent_ScopedToOrganizer(t *testing.T) {
	f := newFixture(t)
	event := f.seedSettledEvent(t, 2, true)

	_, err := f.svc.Settle(context.Background())
	require.NoError(t, err)

	_, err = f.svc.GetByEvent(context.Background(), event.ID.String())
	assert.ErrorIs(t, err, eventdomain.ErrInvalidOrganizer)

	// The record carries the recipient phone; another organizer cannot read it.
	stranger := organizerctx.WithOrganizerID(context.Background(), f.node.Generate())
	_, err = f.svc.GetByEvent(stranger, event.ID.String())
	assert.ErrorIs(t, err, eventdomain.ErrNotOrganizer)

	payout, err := f.svc.GetByEvent(ownerContext(event), event.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "+23276000001", payout.RecipientPhone)
}

func TestHandleGatewayStatus_UpdatesPayout(t *testing.T) {
	f := newFixture(t)
	event := f.seedSettledEvent(t, 2, true)

	_, err := f.svc.Settle(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.svc.HandleGatewayStatus(context.Background(), event.ID.String(), "completed"))
	payout, err := f.svc.GetByEvent(ownerContext(event), event.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, payout.Status)

	err = f.svc.HandleGatewayStatus(context.Background(), event.ID.String(), "exploded")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	err = f.svc.HandleGatewayStatus(context.Background(), f.node.Generate().String(), "completed")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettle_RecentEventsWaitForDelay(t *testing.T) {
	f := newFixture(t)
	event := f.seedSettledEvent(t, 2, true)
	require.NoError(t, f.db.Model(&eventdomain.Event{}).
		Where("id = ?", event.ID).
		Update("ends_at", f.clock.Now().Add(-time.Hour)).Error)

	result, err := f.svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)

	f.clock.Advance(72 * time.Hour)
	result, err = f.svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
}
