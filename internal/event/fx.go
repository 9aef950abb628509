package event

import (
	"github.com/gatherup-events/gatherup/internal/event/repository"
	"github.com/gatherup-events/gatherup/internal/event/service"
	"go.uber.org/fx"
)

var Module = fx.Module("event.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
