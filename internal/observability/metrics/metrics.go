// Package metrics exposes application-level OpenTelemetry instruments.
package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	ledgerRecords    metric.Int64Counter
	paymentsSettled  metric.Int64Counter
	priceResolutions metric.Int64Counter
	customerRefresh  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "jprocessing"
	}
	meter := provider.Meter(name)

	ledgerRecords, err := meter.Int64Counter("jprocessing_ledger_records_total")
	if err != nil {
		return nil, err
	}
	paymentsSettled, err := meter.Int64Counter("jprocessing_payments_settled_total")
	if err != nil {
		return nil, err
	}
	priceResolutions, err := meter.Int64Counter("jprocessing_price_resolutions_total")
	if err != nil {
		return nil, err
	}
	customerRefresh, err := meter.Int64Counter("jprocessing_customer_cache_refresh_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ledgerRecords:    ledgerRecords,
		paymentsSettled:  paymentsSettled,
		priceResolutions: priceResolutions,
		customerRefresh:  customerRefresh,
	}, nil
}

// RecordLedgerAppend counts one appended accounting record.
func (m *Metrics) RecordLedgerAppend(ctx context.Context, recordType string) {
	if m == nil || m.ledgerRecords == nil {
		return
	}
	m.ledgerRecords.Add(ctx, 1, metric.WithAttributes(attribute.String("record_type", recordType)))
}

// RecordPaymentSettled counts one payment reaching a terminal state.
func (m *Metrics) RecordPaymentSettled(ctx context.Context, status string) {
	if m == nil || m.paymentsSettled == nil {
		return
	}
	m.paymentsSettled.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordPriceResolution counts one successful price resolution.
func (m *Metrics) RecordPriceResolution(ctx context.Context) {
	if m == nil || m.priceResolutions == nil {
		return
	}
	m.priceResolutions.Add(ctx, 1)
}

// RecordCustomerRefresh counts one customer cache refresh.
func (m *Metrics) RecordCustomerRefresh(ctx context.Context) {
	if m == nil || m.customerRefresh == nil {
		return
	}
	m.customerRefresh.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported metrics exporter protocol %q", protocol)
	}
}
