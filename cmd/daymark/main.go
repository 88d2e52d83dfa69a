package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/clock"
	"github.com/daymark/daymark/internal/config"
	"github.com/daymark/daymark/internal/logger"
	"github.com/daymark/daymark/internal/metrics"
	"github.com/daymark/daymark/internal/migration"
	"github.com/daymark/daymark/internal/observability"
	"github.com/daymark/daymark/internal/server"
	"github.com/daymark/daymark/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		metrics.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
