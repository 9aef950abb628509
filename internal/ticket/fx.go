package ticket

import (
	"github.com/gatherup-events/gatherup/internal/ticket/repository"
	"github.com/gatherup-events/gatherup/internal/ticket/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ticket.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
