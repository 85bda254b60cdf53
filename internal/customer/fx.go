package customer

import (
	"github.com/smallbiznis/jprocessing/internal/customer/repository"
	"github.com/smallbiznis/jprocessing/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
