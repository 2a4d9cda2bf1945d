package ecu

import (
	"github.com/cemcalis/chiptunnig/internal/ecu/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ecu.service",
	fx.Provide(service.NewService),
)
