package billing

import (
	billingdomain "github.com/daymark/daymark/internal/billing/domain"
	"github.com/daymark/daymark/internal/billing/repository"
	"github.com/daymark/daymark/internal/billing/service"
	"github.com/daymark/daymark/internal/lemonsqueezy"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(client *lemonsqueezy.Client) billingdomain.ProviderClient { return client }),
	fx.Provide(service.NewService),
	fx.Provide(service.NewSyncWorker),
	fx.Invoke(service.RegisterSyncWorker),
)
