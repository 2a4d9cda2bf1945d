package filerequest

import (
	"github.com/cemcalis/chiptunnig/internal/filerequest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("filerequest.service",
	fx.Provide(service.NewService),
)
