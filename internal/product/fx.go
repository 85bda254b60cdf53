package product

import (
	"github.com/smallbiznis/jprocessing/internal/product/repository"
	"github.com/smallbiznis/jprocessing/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
