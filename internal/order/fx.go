package order

import (
	"github.com/daymark/daymark/internal/order/repository"
	"github.com/daymark/daymark/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
