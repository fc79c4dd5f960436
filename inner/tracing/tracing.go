package tracing

import (
	"context"
	"fmt"

	"employeeapi/inner/common"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

// ShutdownFunc сбрасывает накопленные спаны и останавливает экспортёр
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Init настраивает глобальный TracerProvider по OTEL_EXPORTER.
// "none" оставляет no-op провайдер; адрес коллектора берётся из стандартных
// переменных OTEL_EXPORTER_OTLP_*.
func Init(ctx context.Context, cfg common.Config, logger *common.Logger) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	var exporter *otlptrace.Exporter
	var err error
	switch cfg.OtelExporter {
	case "", "none":
		logger.Info("tracing disabled")
		return noop, nil
	case "otlp-grpc":
		exporter, err = otlptracegrpc.New(ctx)
	case "otlp-http":
		exporter, err = otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported OTEL_EXPORTER: %s", cfg.OtelExporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s exporter: %w", cfg.OtelExporter, err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.AppName),
			semconv.ServiceVersionKey.String(cfg.AppVersion),
		),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing configured", zap.String("exporter", cfg.OtelExporter))
	return tp.Shutdown, nil
}
