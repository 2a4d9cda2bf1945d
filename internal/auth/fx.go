package auth

import (
	"github.com/cemcalis/chiptunnig/internal/auth/repository"
	"github.com/cemcalis/chiptunnig/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
