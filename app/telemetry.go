package app

import (
	"context"
	"fmt"

	"github.com/kbukum/cypherstream/logger"
	"github.com/kbukum/cypherstream/observability"
)

const meterName = "github.com/kbukum/cypherstream"

// startTelemetry installs OTLP trace and metric providers and registers
// their shutdown as OnStop hooks so buffered data is flushed on exit.
func (a *App) startTelemetry(ctx context.Context) error {
	s := a.Settings
	log := logger.Get("telemetry")

	tracerCfg := observability.DefaultTracerConfig(s.Name)
	tracerCfg.ServiceVersion = s.Version
	tracerCfg.Environment = s.Environment
	tracerCfg.Endpoint = s.Telemetry.Endpoint
	tracerCfg.Insecure = s.Telemetry.Insecure
	tracerCfg.SampleRate = s.Telemetry.SampleRate

	tp, err := observability.InitTracer(ctx, &tracerCfg)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	a.OnStop(tp.Shutdown)

	meterCfg := observability.DefaultMeterConfig(s.Name)
	meterCfg.ServiceVersion = s.Version
	meterCfg.Environment = s.Environment
	meterCfg.Endpoint = s.Telemetry.Endpoint
	meterCfg.Insecure = s.Telemetry.Insecure
	meterCfg.Interval = s.Telemetry.ExportInterval

	mp, err := observability.InitMeter(ctx, &meterCfg)
	if err != nil {
		return fmt.Errorf("meter: %w", err)
	}
	a.OnStop(mp.Shutdown)

	metrics, err := observability.NewPipelineMetrics(observability.Meter(meterName))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	a.Metrics = metrics

	log.Debug("telemetry enabled", logger.Fields("endpoint", s.Telemetry.Endpoint, "sample_rate", s.Telemetry.SampleRate))
	return nil
}
