package lemonsqueezy

import "go.uber.org/fx"

var Module = fx.Module("lemonsqueezy.client",
	fx.Provide(NewClient),
)
