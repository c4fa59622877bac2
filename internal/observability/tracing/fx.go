package tracing

import (
	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module configures the global tracer provider from process configuration.
var Module = fx.Module("observability.tracing",
	fx.Provide(newProvider),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

func newProvider(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*sdktrace.TracerProvider, error) {
	return NewProvider(lc, Config{
		Enabled:          cfg.Tracing.Enabled,
		ServiceName:      "farmpro",
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
		ExporterProtocol: cfg.Tracing.ExporterProtocol,
		SamplingRatio:    cfg.Tracing.SamplingRatio,
	}, log)
}
