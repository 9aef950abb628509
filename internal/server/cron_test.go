package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/clock"
	"github.com/gatherup-events/gatherup/internal/config"
	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
	eventrepository "github.com/gatherup-events/gatherup/internal/event/repository"
	ticketdomain "github.com/gatherup-events/gatherup/internal/ticket/domain"
	ticketrepository "github.com/gatherup-events/gatherup/internal/ticket/repository"
	ticketservice "github.com/gatherup-events/gatherup/internal/ticket/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*Server, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&eventdomain.Event{}, &ticketdomain.Ticket{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	tickets := ticketservice.New(ticketservice.Params{
		DB:        db,
		Log:       zaptest.NewLogger(t),
		GenID:     node,
		Clock:     clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Repo:      ticketrepository.Provide(),
		EventRepo: eventrepository.Provide(),
	})

	srv := NewServer(ServerParams{
		Config: config.Config{
			CronSecret: "cron-secret",
			Monime:     config.MonimeConfig{WebhookSecret: "hook-secret"},
		},
		Log:     zaptest.NewLogger(t),
		Tickets: tickets,
	})
	return srv, db, node
}

func TestCronExpire_RequiresBearerSecret(t *testing.T) {
	srv, _, _ := newTestServer(t)
	engine := srv.Engine()

	for _, header := range []string{"", "Bearer wrong", "cron-secret"} {
		req := httptest.NewRequest(http.MethodPost, "/api/cron/expire", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header=%q", header)
	}
}

func TestCronExpire_ReportsCounts(t *testing.T) {
	srv, db, node := newTestServer(t)
	engine := srv.Engine()

	event := &eventdomain.Event{
		ID:          node.Generate(),
		OrganizerID: node.Generate(),
		Title:       "Old Show",
		Slug:        "old-show",
		StartsAt:    time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC),
		Capacity:    10,
		Status:      eventdomain.StatusActive,
	}
	require.NoError(t, db.Create(event).Error)
	require.NoError(t, db.Create(&ticketdomain.Ticket{
		ID:            node.Generate(),
		EventID:       event.ID,
		AttendeeName:  "Ada",
		AttendeeEmail: "ada@example.com",
		Status:        ticketdomain.StatusApproved,
		PaymentStatus: ticketdomain.PaymentPending,
		QRToken:       "tok",
		CreatedAt:     time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/expire", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success      bool  `json:"success"`
		ExpiredCount int64 `json:"expiredCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(1), body.ExpiredCount)
}

func TestPayoutWebhook_RequiresBearerSecret(t *testing.T) {
	srv, _, _ := newTestServer(t)
	engine := srv.Engine()

	for _, header := range []string{"", "Bearer wrong", "hook-secret"} {
		req := httptest.NewRequest(http.MethodPost, "/payments/payouts/status", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header=%q", header)
	}

	// An authorized caller still has to send a valid body.
	req := httptest.NewRequest(http.MethodPost, "/payments/payouts/status", nil)
	req.Header.Set("Authorization", "Bearer hook-secret")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventTickets_ScopedToOrganizer(t *testing.T) {
	srv, db, node := newTestServer(t)
	engine := srv.Engine()

	owner := node.Generate()
	event := &eventdomain.Event{
		ID:          node.Generate(),
		OrganizerID: owner,
		Title:       "Members Gala",
		Slug:        "members-gala",
		StartsAt:    time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC),
		Capacity:    10,
		Status:      eventdomain.StatusActive,
	}
	require.NoError(t, db.Create(event).Error)
	require.NoError(t, db.Create(&ticketdomain.Ticket{
		ID:            node.Generate(),
		EventID:       event.ID,
		AttendeeName:  "Ada",
		AttendeeEmail: "ada@example.com",
		Status:        ticketdomain.StatusApproved,
		PaymentStatus: ticketdomain.PaymentPending,
		QRToken:       "gate-token",
		CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}).Error)

	stranger := node.Generate().String()
	path := fmt.Sprintf("/api/events/%s/tickets", event.ID)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Organizer-ID", stranger)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "gate-token")

	// The QR token is equally useless to a stranger at the check-in desk.
	req = httptest.NewRequest(http.MethodPost, "/api/checkin",
		strings.NewReader(`{"qr_token":"gate-token"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Organizer-ID", stranger)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Organizer-ID", owner.String())
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gate-token")
}

func TestOrganizerRoutes_RequireHeader(t *testing.T) {
	srv, _, _ := newTestServer(t)
	engine := srv.Engine()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("X-Organizer-ID", "not-a-snowflake")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
