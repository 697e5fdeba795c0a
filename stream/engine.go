package stream

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/cypherstream/errors"
	"github.com/kbukum/cypherstream/logger"
	"github.com/kbukum/cypherstream/observability"
	"github.com/kbukum/cypherstream/pipeline"
)

// ErrEngineUsed is returned by Run on an engine that has already run.
var ErrEngineUsed = stderrors.New("stream: engine has already run")

// Engine connects a source, an ordered list of stages and a sink for a
// single run.
type Engine struct {
	source  Source
	stages  []Stage
	sink    Sink
	runID   string
	log     *logger.Logger
	metrics *observability.PipelineMetrics

	state atomic.Int32
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for run and teardown events.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the instruments recorded during the run.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// NewEngine assembles an engine. With no stages the run copies the source
// to the sink unchanged.
func NewEngine(source Source, stages []Stage, sink Sink, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		stages: append([]Stage(nil), stages...),
		sink:   sink,
		runID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get("engine")
	}
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return State(e.state.Load()) }

// RunID returns the id attached to this engine's logs and span.
func (e *Engine) RunID() string { return e.runID }

// Run drives chunks from source to sink until the source is exhausted or
// something fails, and returns the first error. Both endpoints are closed
// before Run returns.
func (e *Engine) Run(ctx context.Context) (err error) {
	if !e.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return ErrEngineUsed
	}

	ctx = logger.ContextWithRunID(ctx, e.runID)
	log := e.log.WithContext(ctx)

	run := observability.NewRun(e.runID, e.stageNames(), e.source.Name(), e.sink.Name(), e.metrics)
	ctx, span := run.Start(ctx)

	log.Debug("run started", logger.Fields(
		"source", e.source.Name(),
		"sink", e.sink.Name(),
		"stages", e.stageNames(),
	))

	var stats runStats
	defer func() {
		status := run.End(ctx, span, err)
		fields := logger.DurationFields("run", run.Duration())
		fields[logger.FieldStatus] = status
		fields[logger.FieldChunks] = stats.chunks
		fields[logger.FieldBytes] = stats.bytes
		if err != nil {
			e.state.Store(int32(Failed))
			fields[logger.FieldCode] = string(errors.Wrap(err).Code)
			log.WithError(err).Warn("run failed", fields)
			return
		}
		e.state.Store(int32(Completed))
		log.Info("run completed", fields)
	}()

	return e.execute(ctx, log, &stats)
}

type runStats struct {
	chunks int
	bytes  int
}

// execute opens the sink, drains the assembled pipeline into it and closes
// both endpoints. Metrics come from the run stored in ctx. A close error
// replaces a nil result and is logged otherwise.
func (e *Engine) execute(ctx context.Context, log *logger.Logger, stats *runStats) (err error) {
	m := observability.RunFromContext(ctx).Metrics
	suppress := func(endpoint string) func(error) {
		return func(cerr error) {
			log.Warn("suppressed close error", logger.Fields(
				logger.FieldOperation, "close",
				"endpoint", endpoint,
				logger.FieldError, cerr.Error(),
			))
		}
	}

	defer func() {
		if cerr := e.sink.Close(); cerr != nil {
			if err == nil {
				err = cerr
			} else {
				suppress(e.sink.Name())(cerr)
			}
		}
	}()

	if err := e.sink.Open(); err != nil {
		// The source was never pulled; Close only releases what Open acquired.
		if cerr := e.source.Close(); cerr != nil {
			suppress(e.source.Name())(cerr)
		}
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	return pipeline.Drain(e.assemble(m, stats), func(ctx context.Context, chunk string) error {
		start := time.Now()
		if err := e.sink.Write(ctx, chunk); err != nil {
			return err
		}
		m.RecordBytes(ctx, len(chunk))
		stats.bytes += len(chunk)
		log.Debug("chunk written", logger.DurationFields("write", time.Since(start)))
		return nil
	}).OnSuppressed(suppress(e.source.Name())).Run(ctx)
}

// assemble builds source -> [stage]* -> filter -> tap, with an unbuffered
// hand-off goroutine after the source and after every stage.
func (e *Engine) assemble(m *observability.PipelineMetrics, stats *runStats) *pipeline.Pipeline[string] {
	p := pipeline.Buffer(pipeline.From[string](e.source), 0)
	for _, st := range e.stages {
		p = pipeline.Buffer(pipeline.Map(p, func(ctx context.Context, chunk string) (string, error) {
			out, err := st.Apply(ctx, chunk)
			if err != nil {
				return "", err
			}
			m.RecordChunk(ctx, st.Name())
			return out, nil
		}), 0)
	}
	p = pipeline.Filter(p, func(chunk string) bool { return chunk != "" })
	return pipeline.Tap(p, func(_ context.Context, _ string) error {
		stats.chunks++
		return nil
	})
}

func (e *Engine) stageNames() []string {
	names := make([]string, len(e.stages))
	for i, st := range e.stages {
		names[i] = st.Name()
	}
	return names
}
