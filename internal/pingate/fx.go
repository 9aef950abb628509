package pingate

import "go.uber.org/fx"

var Module = fx.Module("pingate",
	fx.Provide(New),
)
