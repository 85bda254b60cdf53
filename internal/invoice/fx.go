package invoice

import (
	"github.com/smallbiznis/jprocessing/internal/invoice/repository"
	"github.com/smallbiznis/jprocessing/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
