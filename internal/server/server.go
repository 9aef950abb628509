package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gatherup-events/gatherup/internal/config"
	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
	"github.com/gatherup-events/gatherup/internal/observability/metrics"
	payoutdomain "github.com/gatherup-events/gatherup/internal/payout/domain"
	"github.com/gatherup-events/gatherup/internal/pingate"
	profiledomain "github.com/gatherup-events/gatherup/internal/profile/domain"
	ticketdomain "github.com/gatherup-events/gatherup/internal/ticket/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(run),
)

type ServerParams struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	Events   eventdomain.Service
	Tickets  ticketdomain.Service
	Payouts  payoutdomain.Service
	Profiles profiledomain.Service
	PinGate  *pingate.Service
}

type Server struct {
	cfg      config.Config
	log      *zap.Logger
	events   eventdomain.Service
	tickets  ticketdomain.Service
	payouts  payoutdomain.Service
	profiles profiledomain.Service
	pinGate  *pingate.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		cfg:      p.Config,
		log:      p.Log,
		events:   p.Events,
		tickets:  p.Tickets,
		payouts:  p.Payouts,
		profiles: p.Profiles,
		pinGate:  p.PinGate,
	}
}

func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.registerRoutes(r)
	return r
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/payments/success", s.paymentSuccess)
	r.GET("/payments/cancel", s.paymentCancel)
	r.POST("/payments/payouts/status", s.gatewayWebhookAuth(), s.payoutStatusWebhook)

	api := r.Group("/api")
	{
		api.GET("/events/:id", s.getEvent)
		api.GET("/events/slug/:slug", s.getEventBySlug)
		api.POST("/events/:id/tickets", s.issueTicket)
		api.GET("/tickets/:id", s.getTicket)
		api.POST("/events/:id/pin/verify", s.verifyPIN)

		organizer := api.Group("", s.organizerRequired())
		{
			organizer.GET("/profile", s.getProfile)
			organizer.PUT("/profile", s.updateProfile)
			organizer.POST("/events", s.createEvent)
			organizer.GET("/events", s.listMyEvents)
			organizer.GET("/events/:id/tickets", s.listEventTickets)
			organizer.POST("/tickets/:id/approve", s.approveTicket)
			organizer.POST("/tickets/:id/reject", s.rejectTicket)
			organizer.POST("/checkin", s.checkInTicket)
			organizer.GET("/payouts", s.listMyPayouts)
			organizer.GET("/events/:id/payout", s.getEventPayout)
			organizer.PUT("/events/:id/pin", s.setPIN)
			organizer.DELETE("/events/:id/pin", s.removePIN)
			organizer.GET("/events/:id/manage", s.pinGateRequired(), s.managePage)
		}

		cron := api.Group("/cron", s.cronAuth())
		{
			cron.POST("/expire", s.cronExpire)
			cron.POST("/payouts", s.cronPayouts)
		}
	}
}

func run(lc fx.Lifecycle, s *Server, log *zap.Logger, cfg config.Config) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down http server")
			return srv.Shutdown(ctx)
		},
	})
}
