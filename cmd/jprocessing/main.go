package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/jprocessing/internal/account"
	"github.com/smallbiznis/jprocessing/internal/clock"
	"github.com/smallbiznis/jprocessing/internal/config"
	"github.com/smallbiznis/jprocessing/internal/customer"
	"github.com/smallbiznis/jprocessing/internal/invoice"
	"github.com/smallbiznis/jprocessing/internal/liability"
	"github.com/smallbiznis/jprocessing/internal/logger"
	"github.com/smallbiznis/jprocessing/internal/migration"
	obsmetrics "github.com/smallbiznis/jprocessing/internal/observability/metrics"
	"github.com/smallbiznis/jprocessing/internal/payment"
	"github.com/smallbiznis/jprocessing/internal/pricing"
	"github.com/smallbiznis/jprocessing/internal/product"
	"github.com/smallbiznis/jprocessing/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// core infrastructure
		config.Module,
		logger.Module,
		obsmetrics.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// billing domains
		account.Module,
		product.Module,
		pricing.Module,
		liability.Module,
		invoice.Module,
		payment.Module,
		customer.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
