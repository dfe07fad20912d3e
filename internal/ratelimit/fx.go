package ratelimit

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewDocumentLimiter),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, limiter *DocumentLimiter) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return limiter.Close()
		},
	})
}
