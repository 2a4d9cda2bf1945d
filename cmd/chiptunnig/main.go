package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/cemcalis/chiptunnig/internal/migration"
	"github.com/cemcalis/chiptunnig/internal/observability"
	"github.com/cemcalis/chiptunnig/internal/server"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		server.Module,
		migration.Module,
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
