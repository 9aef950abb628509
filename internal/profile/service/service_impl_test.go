package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/clock"
	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
	"github.com/gatherup-events/gatherup/internal/organizerctx"
	"github.com/gatherup-events/gatherup/internal/profile/domain"
	"github.com/gatherup-events/gatherup/internal/profile/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Profile{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
	return svc, db, node
}

func TestUpdate_UpsertsSingleRowPerUser(t *testing.T) {
	svc, db, node := newService(t)
	ctx := organizerctx.WithOrganizerID(context.Background(), node.Generate())

	first, err := svc.Update(ctx, domain.UpdateProfileRequest{
		FullName: "Org Anizer",
		Email:    "org@example.com",
	})
	require.NoError(t, err)
	assert.Empty(t, first.MonimePhone)

	second, err := svc.Update(ctx, domain.UpdateProfileRequest{
		FullName:    "Org Anizer",
		Email:       "org@example.com",
		MonimePhone: "+23276000001",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "+23276000001", second.MonimePhone)

	var count int64
	require.NoError(t, db.Model(&domain.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdate_Validation(t *testing.T) {
	svc, _, node := newService(t)
	ctx := organizerctx.WithOrganizerID(context.Background(), node.Generate())

	_, err := svc.Update(ctx, domain.UpdateProfileRequest{Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Update(ctx, domain.UpdateProfileRequest{
		Email:       "org@example.com",
		MonimePhone: "call-me",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)

	_, err = svc.Update(context.Background(), domain.UpdateProfileRequest{Email: "org@example.com"})
	assert.ErrorIs(t, err, eventdomain.ErrInvalidOrganizer)
}

func TestGet_NotFoundBeforeFirstUpdate(t *testing.T) {
	svc, _, node := newService(t)
	ctx := organizerctx.WithOrganizerID(context.Background(), node.Generate())

	_, err := svc.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, domain.UpdateProfileRequest{Email: "org@example.com"})
	require.NoError(t, err)

	profile, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "org@example.com", profile.Email)
}
