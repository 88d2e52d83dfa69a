package todo

import (
	"github.com/daymark/daymark/internal/todo/repository"
	"github.com/daymark/daymark/internal/todo/service"
	"go.uber.org/fx"
)

var Module = fx.Module("todo.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
