package payout

import (
	"github.com/gatherup-events/gatherup/internal/payout/repository"
	"github.com/gatherup-events/gatherup/internal/payout/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payout.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
