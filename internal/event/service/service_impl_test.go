package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/clock"
	"github.com/gatherup-events/gatherup/internal/event/domain"
	"github.com/gatherup-events/gatherup/internal/event/repository"
	"github.com/gatherup-events/gatherup/internal/organizerctx"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Event{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Clock: clock.NewFakeClock(baseTime),
		Repo:  repository.Provide(),
	})
	return svc, node
}

func validRequest() domain.CreateEventRequest {
	return domain.CreateEventRequest{
		Title:     "Freetown Tech Meetup",
		Venue:     "City Hall",
		StartsAt:  baseTime.Add(48 * time.Hour),
		EndsAt:    baseTime.Add(52 * time.Hour),
		Capacity:  120,
		IsPaid:    true,
		Price:     decimal.RequireFromString("25.00"),
		FeeBearer: domain.FeeBearerOrganizer,
	}
}

func TestCreate_SlugDerivedFromTitle(t *testing.T) {
	svc, node := newService(t)
	ctx := organizerctx.WithOrganizerID(context.Background(), node.Generate())

	event, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(event.Slug, "freetown-tech-meetup-"), "slug=%s", event.Slug)
	assert.Equal(t, domain.StatusActive, event.Status)
	assert.False(t, event.PayoutCompleted)

	found, err := svc.GetBySlug(context.Background(), event.Slug)
	require.NoError(t, err)
	assert.Equal(t, event.ID, found.ID)
}

func TestCreate_RequiresOrganizer(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidOrganizer)
}

func TestCreate_Validation(t *testing.T) {
	svc, node := newService(t)
	ctx := organizerctx.WithOrganizerID(context.Background(), node.Generate())

	cases := []struct {
		name    string
		mutate  func(*domain.CreateEventRequest)
		wantErr error
	}{
		{"blank title", func(r *domain.CreateEventRequest) { r.Title = "  " }, domain.ErrInvalidTitle},
		{"end before start", func(r *domain.CreateEventRequest) { r.EndsAt = r.StartsAt.Add(-time.Hour) }, domain.ErrInvalidSchedule},
		{"zero capacity", func(r *domain.CreateEventRequest) { r.Capacity = 0 }, domain.ErrInvalidCapacity},
		{"paid with zero price", func(r *domain.CreateEventRequest) { r.Price = decimal.Zero }, domain.ErrInvalidPrice},
		{"unknown fee bearer", func(r *domain.CreateEventRequest) { r.FeeBearer = "venue" }, domain.ErrInvalidFeeBearer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreate_FeeBearerDefaultsToBuyer(t *testing.T) {
	svc, node := newService(t)
	ctx := organizerctx.WithOrganizerID(context.Background(), node.Generate())

	req := validRequest()
	req.FeeBearer = ""
	event, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.FeeBearerBuyer, event.FeeBearer)
}

func TestListMine_ScopedToOrganizer(t *testing.T) {
	svc, node := newService(t)
	mine := organizerctx.WithOrganizerID(context.Background(), node.Generate())
	theirs := organizerctx.WithOrganizerID(context.Background(), node.Generate())

	_, err := svc.Create(mine, validRequest())
	require.NoError(t, err)
	_, err = svc.Create(mine, validRequest())
	require.NoError(t, err)
	_, err = svc.Create(theirs, validRequest())
	require.NoError(t, err)

	events, err := svc.ListMine(mine)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
