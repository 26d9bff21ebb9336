package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/brewhub/brewhub/internal/config"
	"github.com/brewhub/brewhub/internal/logger"
	"github.com/brewhub/brewhub/internal/migration"
	"github.com/brewhub/brewhub/internal/server"
	"github.com/brewhub/brewhub/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
