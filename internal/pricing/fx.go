package pricing

import (
	"github.com/smallbiznis/jprocessing/internal/pricing/repository"
	"github.com/smallbiznis/jprocessing/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
