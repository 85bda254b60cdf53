package account

import (
	"github.com/smallbiznis/jprocessing/internal/account/repository"
	"github.com/smallbiznis/jprocessing/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
