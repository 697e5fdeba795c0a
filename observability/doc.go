// Package observability provides OpenTelemetry tracing and metrics for
// pipeline runs.
//
// Tracing and metrics export are opt-in. Without InitTracer and InitMeter
// the global providers are no-ops and recording costs nothing.
//
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
//	metrics, err := observability.NewPipelineMetrics(observability.Meter("cypherstream"))
//	run := observability.NewRun(id, stages, "in.txt", "out.txt", metrics)
//	ctx, span := run.Start(ctx)
//	err = work(ctx)
//	run.End(ctx, span, err)
package observability
