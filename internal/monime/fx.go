package monime

import "go.uber.org/fx"

var Module = fx.Module("monime",
	fx.Provide(NewClient),
)
