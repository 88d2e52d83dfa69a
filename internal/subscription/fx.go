package subscription

import (
	"github.com/daymark/daymark/internal/subscription/repository"
	"github.com/daymark/daymark/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
