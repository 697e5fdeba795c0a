package options

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kbukum/cypherstream/cypher"
	"github.com/kbukum/cypherstream/errors"
)

const (
	FlagConfig  = "config"
	FlagInput   = "input"
	FlagOutput  = "output"
	FlagVersion = "version"
	FlagHelp    = "help"
)

// Options is the resolved command line. An empty Input or Output selects the
// standard stream.
type Options struct {
	Config  string
	Input   string
	Output  string
	Version bool
	Help    bool
}

// String renders the options the way they are echoed in debug logs.
func (o Options) String() string {
	return fmt.Sprintf("config: %s, input: %s, output: %s", o.Config, orDash(o.Input), orDash(o.Output))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// onceValue is a string flag that rejects a second assignment.
type onceValue struct {
	name   string
	target *string
	set    bool
}

func (v *onceValue) String() string {
	if v.target == nil {
		return ""
	}
	return *v.target
}

func (v *onceValue) Set(s string) error {
	if v.set {
		return errors.DuplicateOption("--" + v.name)
	}
	*v.target = s
	v.set = true
	return nil
}

func (v *onceValue) Type() string { return "string" }

func newFlagSet(prog string, o *Options) (*pflag.FlagSet, map[string]*onceValue) {
	fs := pflag.NewFlagSet(prog, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	values := map[string]*onceValue{
		FlagConfig: {name: FlagConfig, target: &o.Config},
		FlagInput:  {name: FlagInput, target: &o.Input},
		FlagOutput: {name: FlagOutput, target: &o.Output},
	}
	fs.VarP(values[FlagConfig], FlagConfig, "c", "cypher chain, e.g. \"C1-C0-A-R1\"")
	fs.VarP(values[FlagInput], FlagInput, "i", "input file (default: standard input)")
	fs.VarP(values[FlagOutput], FlagOutput, "o", "output file, must exist; appended to (default: standard output)")
	fs.BoolVarP(&o.Version, FlagVersion, "v", false, "print version information and exit")
	fs.BoolVarP(&o.Help, FlagHelp, "h", false, "print this help and exit")
	return fs, values
}

// Parse resolves args (without the program name) into Options.
// --config is mandatory unless --version or --help is given.
func Parse(args []string) (Options, error) {
	var o Options
	fs, values := newFlagSet("cypherstream", &o)

	if err := fs.Parse(args); err != nil {
		return Options{}, translate(err)
	}
	if rest := fs.Args(); len(rest) > 0 {
		return Options{}, errors.InvalidOption(rest[0])
	}
	if o.Version || o.Help {
		return o, nil
	}
	if !values[FlagConfig].set {
		return Options{}, errors.MissingOption("--" + FlagConfig)
	}
	return o, nil
}

// translate maps pflag parse failures onto option errors.
func translate(err error) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	var required *pflag.ValueRequiredError
	if stderrors.As(err, &required) {
		return errors.MissingOptionValue("--" + required.GetFlag().Name)
	}

	var missing *pflag.NotExistError
	if stderrors.As(err, &missing) {
		if missing.GetSpecifiedShortnames() != "" {
			return errors.InvalidOption("-" + missing.GetSpecifiedName())
		}
		return errors.InvalidOption("--" + missing.GetSpecifiedName())
	}

	var invalid *pflag.InvalidValueError
	if stderrors.As(err, &invalid) {
		return errors.InvalidOption(fmt.Sprintf("--%s=%s", invalid.GetFlag().Name, invalid.GetValue()))
	}

	var syntax *pflag.InvalidSyntaxError
	if stderrors.As(err, &syntax) {
		return errors.InvalidOption(syntax.GetSpecifiedFlag())
	}

	return errors.New(errors.ErrCodeInvalidOption, err.Error()).WithCause(err)
}

// PrintUsage writes the usage banner, the flag table and the supported
// cypher families to w.
func PrintUsage(w io.Writer, prog string) {
	var o Options
	fs, _ := newFlagSet(prog, &o)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "%s -c|--config \"<config spec>\" [ -i|--input <filename> ] [ -o|--output <filename> ]\n", prog)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cyphers (joined with '-'):")
	for _, f := range cypher.Families() {
		spec := string(f.Letter)
		if len(f.Tokens) > 0 {
			spec += "{" + strings.Join(f.Tokens, ",") + "}"
		}
		fmt.Fprintf(w, "  %-8s %s\n", spec, f.Name)
	}
}
