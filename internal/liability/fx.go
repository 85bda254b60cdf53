package liability

import (
	"github.com/smallbiznis/jprocessing/internal/liability/repository"
	"github.com/smallbiznis/jprocessing/internal/liability/service"
	"go.uber.org/fx"
)

var Module = fx.Module("liability",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
