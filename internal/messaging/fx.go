package messaging

import (
	"github.com/cemcalis/chiptunnig/internal/messaging/service"
	"go.uber.org/fx"
)

var Module = fx.Module("messaging.service",
	fx.Provide(service.NewService),
)
