package metrics

import (
	"github.com/smallbiznis/jprocessing/internal/config"
	"go.uber.org/fx"
)

func configFromApp(cfg config.Config) Config {
	return Config{
		Enabled:          cfg.Metrics.Enabled,
		ExporterEndpoint: cfg.Metrics.Endpoint,
		ExporterProtocol: cfg.Metrics.Exporter,
		ServiceName:      cfg.AppName,
	}
}

var Module = fx.Module("observability.metrics",
	fx.Provide(
		configFromApp,
		NewProvider,
		New,
	),
)
