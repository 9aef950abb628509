package clock

import "go.uber.org/fx"

func ProvideSystem() Clock {
	return SystemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(ProvideSystem),
)
