package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gatherup-events/gatherup/internal/clock"
	"github.com/gatherup-events/gatherup/internal/config"
	"github.com/gatherup-events/gatherup/internal/event"
	"github.com/gatherup-events/gatherup/internal/logger"
	"github.com/gatherup-events/gatherup/internal/migration"
	"github.com/gatherup-events/gatherup/internal/monime"
	"github.com/gatherup-events/gatherup/internal/payout"
	"github.com/gatherup-events/gatherup/internal/pingate"
	"github.com/gatherup-events/gatherup/internal/profile"
	"github.com/gatherup-events/gatherup/internal/ratelimit"
	"github.com/gatherup-events/gatherup/internal/server"
	"github.com/gatherup-events/gatherup/internal/ticket"
	"github.com/gatherup-events/gatherup/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		ratelimit.Module,

		// Functional domains
		profile.Module,
		event.Module,
		ticket.Module,
		payout.Module,
		monime.Module,
		pingate.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
