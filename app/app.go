package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/cypherstream/cypher"
	"github.com/kbukum/cypherstream/logger"
	"github.com/kbukum/cypherstream/observability"
	"github.com/kbukum/cypherstream/options"
	"github.com/kbukum/cypherstream/stream"
)

// App owns the process lifecycle of a single pipeline run: settings,
// logging, telemetry and the shutdown of whatever those started.
type App struct {
	Name     string
	Version  string
	Settings *Settings
	Logger   *logger.Logger
	Metrics  *observability.PipelineMetrics

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// New creates an application from settings. It applies defaults, validates
// the settings and initializes the logger.
func New(settings *Settings, opts ...Option) (*App, error) {
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	svc := settings.GetServiceConfig()
	a := &App{
		Name:            svc.Name,
		Version:         svc.Version,
		Settings:        settings,
		Metrics:         observability.NopPipelineMetrics(),
		gracefulTimeout: 5 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		a.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		a.Logger = o.logger
	} else {
		if o.logWriter != nil {
			svc.Logging.Writer = o.logWriter
		}
		logger.Init(&svc.Logging)
		logger.RegisterDefaults()
		a.Logger = logger.Get("app")
	}

	if settings.Telemetry.Enabled {
		a.OnStart(a.startTelemetry)
	}
	return a, nil
}

// Run parses the chain in opts, then runs the pipeline between the
// endpoints opts names. A chain error is returned before any endpoint or
// telemetry provider is touched.
func (a *App) Run(ctx context.Context, opts options.Options, stdin io.Reader, stdout io.Writer) error {
	chain, err := cypher.ParseChain(opts.Config)
	if err != nil {
		return err
	}

	a.Logger.Debug("options resolved", logger.Fields("options", opts.String(), "chain", chain.String()))

	return a.RunTask(ctx, func(ctx context.Context) error {
		source := a.source(opts.Input, stdin)
		sink := a.sink(opts.Output, stdout)
		engine := stream.NewEngine(source, stream.StagesFromChain(chain), sink,
			stream.WithLogger(logger.Get("engine")),
			stream.WithMetrics(a.Metrics),
		)
		return engine.Run(ctx)
	})
}

func (a *App) source(path string, stdin io.Reader) stream.Source {
	size := stream.WithChunkSize(a.Settings.Pipeline.ChunkSize)
	if path == "" {
		return stream.NewReaderSource(stream.StdinName, stdin, size)
	}
	return stream.NewFileSource(path, size)
}

func (a *App) sink(path string, stdout io.Writer) stream.Sink {
	if path == "" {
		return stream.NewWriterSink(stream.StdoutName, stdout)
	}
	return stream.NewFileSink(path)
}

// RunTask runs OnStart hooks, then task, then OnStop hooks. SIGINT and
// SIGTERM cancel the task's context. OnStop failures are logged and never
// replace the task's result.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := runHooks(ctx, a.onStart); err != nil {
		a.Logger.Error("start hooks failed", logger.ErrorFields("start", err))
		a.stop()
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("received signal, canceling run", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)
	a.stop()
	return taskErr
}

// stop runs OnStop hooks within the graceful timeout.
func (a *App) stop() {
	if len(a.onStop) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Warn("shutdown completed with errors", logger.ErrorFields("shutdown", err))
	}
}
