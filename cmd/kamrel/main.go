package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/config"
	"github.com/kamrel/kamrel/internal/migration"
	"github.com/kamrel/kamrel/internal/observability"
	"github.com/kamrel/kamrel/internal/server"
	"github.com/kamrel/kamrel/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.Provide(config.Load),
		fx.Provide(config.NewRealtimeConfigHolder),
		fx.Provide(newSnowflakeNode),
		observability.Module,
		db.Module,
		migration.Module,
		clock.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
