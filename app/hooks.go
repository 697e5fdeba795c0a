package app

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback run around the pipeline task.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run after settings are loaded and before the
// pipeline task starts.
func (a *App) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop registers hooks that run after the task returns, in registration
// order. Telemetry providers flush here.
func (a *App) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks executes hooks sequentially, returning the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
