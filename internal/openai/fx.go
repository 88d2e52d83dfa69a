package openai

import "go.uber.org/fx"

var Module = fx.Module("openai.client",
	fx.Provide(NewClient),
)
