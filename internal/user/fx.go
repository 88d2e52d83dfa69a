package user

import (
	"github.com/daymark/daymark/internal/user/repository"
	"github.com/daymark/daymark/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
