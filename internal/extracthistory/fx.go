package extracthistory

import (
	"github.com/daymark/daymark/internal/extracthistory/repository"
	"github.com/daymark/daymark/internal/extracthistory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("extracthistory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
