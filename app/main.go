package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/kbukum/cypherstream/config"
	"github.com/kbukum/cypherstream/errors"
	"github.com/kbukum/cypherstream/options"
	"github.com/kbukum/cypherstream/version"
)

// Main runs the command line in args (args[0] is the program name) and
// returns the process exit code:
//
//	0 success
//	1 invalid options or settings
//	2 invalid cypher chain
//	3 input, output or internal failure
func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, loaderOpts ...config.LoaderOption) int {
	prog := ServiceName
	if len(args) > 0 {
		prog = filepath.Base(args[0])
		args = args[1:]
	}

	opts, err := options.Parse(args)
	if err != nil {
		report(stderr, err)
		options.PrintUsage(stderr, prog)
		fmt.Fprintln(stderr)
		return errors.ExitCode(err)
	}
	if opts.Help {
		options.PrintUsage(stdout, prog)
		return 0
	}
	if opts.Version {
		fmt.Fprintln(stdout, version.Banner(prog))
		return 0
	}

	settings, err := LoadSettings(loaderOpts...)
	if err != nil {
		report(stderr, err)
		return errors.ExitCode(err)
	}

	a, err := New(settings, WithLogWriter(stderr))
	if err != nil {
		report(stderr, err)
		return errors.ExitCode(err)
	}

	if err := a.Run(ctx, opts, stdin, stdout); err != nil {
		report(stderr, err)
		return errors.ExitCode(err)
	}
	return 0
}

func report(w io.Writer, err error) {
	fmt.Fprintln(w, err)
	fmt.Fprintln(w)
}
