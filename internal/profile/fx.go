package profile

import (
	"github.com/gatherup-events/gatherup/internal/profile/repository"
	"github.com/gatherup-events/gatherup/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
