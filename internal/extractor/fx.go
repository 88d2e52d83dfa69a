package extractor

import (
	extractordomain "github.com/daymark/daymark/internal/extractor/domain"
	"github.com/daymark/daymark/internal/extractor/service"
	"github.com/daymark/daymark/internal/openai"
	"go.uber.org/fx"
)

var Module = fx.Module("extractor.service",
	fx.Provide(func(client *openai.Client) extractordomain.Completer { return client }),
	fx.Provide(service.NewService),
)
