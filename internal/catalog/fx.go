package catalog

import (
	"github.com/cemcalis/chiptunnig/internal/catalog/repository"
	"github.com/cemcalis/chiptunnig/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
