package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentflow/internal/clock"
	"github.com/smallbiznis/rentflow/internal/config"
	"github.com/smallbiznis/rentflow/internal/invoice"
	"github.com/smallbiznis/rentflow/internal/logger"
	"github.com/smallbiznis/rentflow/internal/migration"
	"github.com/smallbiznis/rentflow/internal/observability"
	"github.com/smallbiznis/rentflow/internal/providers"
	"github.com/smallbiznis/rentflow/internal/ratelimit"
	"github.com/smallbiznis/rentflow/internal/rental"
	"github.com/smallbiznis/rentflow/internal/server"
	"github.com/smallbiznis/rentflow/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// Core Infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,
		ratelimit.Module,

		// Functional Domains
		rental.Module,
		providers.Module,
		invoice.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
