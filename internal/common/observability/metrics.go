// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider       *metric.MeterProvider
	meter               otelmetric.Meter
	calculationCounter  otelmetric.Int64Counter
	calculationDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	calculationCounter, _ := meter.Int64Counter(
		"routes.calculated",
		otelmetric.WithDescription("Number of route calculations processed"),
	)

	calculationDuration, _ := meter.Float64Histogram(
		"routes.calculation.duration",
		otelmetric.WithDescription("Route calculation duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:       provider,
		meter:               meter,
		calculationCounter:  calculationCounter,
		calculationDuration: calculationDuration,
	}
}

func (o *Observability) RecordCalculation(ctx context.Context, status string) {
	if o.calculationCounter != nil {
		o.calculationCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordCalculationDuration(ctx context.Context, duration time.Duration, status string) {
	if o.calculationDuration != nil {
		o.calculationDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
