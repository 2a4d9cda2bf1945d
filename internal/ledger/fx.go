package ledger

import (
	"github.com/cemcalis/chiptunnig/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(service.NewPoster),
	fx.Provide(service.NewService),
)
