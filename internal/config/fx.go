package config

import "go.uber.org/fx"

// Module wires the environment configuration for the application.
var Module = fx.Module("config",
	fx.Provide(Load),
)
