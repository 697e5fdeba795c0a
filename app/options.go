package app

import (
	"io"
	"time"

	"github.com/kbukum/cypherstream/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	logWriter       io.Writer
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the global logger is initialized from Settings.Logging.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithLogWriter routes log output to w instead of the configured stream.
func WithLogWriter(w io.Writer) Option {
	return func(o *appOptions) {
		o.logWriter = w
	}
}

// WithGracefulTimeout bounds how long OnStop hooks may take.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}
